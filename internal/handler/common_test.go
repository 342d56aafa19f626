package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestParseDay(t *testing.T) {
	got, err := parseDay("2026-03-10")
	if err != nil {
		t.Fatalf("parseDay: %v", err)
	}
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseDay = %v, want %v", got, want)
	}
}

func TestParseDayTrimsWhitespace(t *testing.T) {
	if _, err := parseDay("  2026-03-10  "); err != nil {
		t.Errorf("parseDay with surrounding spaces: %v", err)
	}
}

func TestParseDayRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"", "2026-3-10", "10/03/2026", "2026-03-10T00:00:00Z", "not a date"} {
		if _, err := parseDay(raw); err == nil {
			t.Errorf("parseDay(%q) succeeded, want error", raw)
		}
	}
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	newCtx := func(v interface{}) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		if v != nil {
			c.Set("user_id", v)
		}
		return c
	}

	cases := []struct {
		name string
		val  interface{}
		want uint64
		ok   bool
	}{
		{"float64 claim", float64(7), 7, true},
		{"uint64", uint64(9), 9, true},
		{"int", int(3), 3, true},
		{"string digits", "11", 11, true},
		{"string garbage", "abc", 0, false},
		{"missing", nil, 0, false},
	}
	for _, tc := range cases {
		got, err := getUserID(newCtx(tc.val))
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("%s: got (%d, %v), want (%d, nil)", tc.name, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected error, got %d", tc.name, got)
		}
	}
}
