package echoutil_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	httptestutil "github.com/opensilex/phis/internal/testutils/http"
	"github.com/opensilex/phis/pkg/utils/echoutil"
)

func TestParseLevel(t *testing.T) {
	for name, testcase := range map[string]struct {
		when   string
		then   log.Lvl
		thenOk bool
	}{
		"debug":              {"debug", log.DEBUG, true},
		"upper case info":    {"INFO", log.INFO, true},
		"warn":               {"warn", log.WARN, true},
		"empty is warn":      {"", log.WARN, true},
		"error":              {"error", log.ERROR, true},
		"off":                {"off", log.OFF, true},
		"unknown falls back": {"verbose", log.WARN, false},
	} {
		t.Run(name, func(t *testing.T) {
			lvl, ok := echoutil.ParseLevel(testcase.when)
			if lvl != testcase.then || ok != testcase.thenOk {
				t.Errorf("ParseLevel(%s) = (%v, %v), expected (%v, %v)", testcase.when, lvl, ok, testcase.then, testcase.thenOk)
			}
		})
	}
}

func TestLogHandlerFunc(t *testing.T) {
	t.Run("it passes through the result of wrapped handler", func(t *testing.T) {
		e := echo.New()
		boom := errors.New("boom")
		called := 0
		h := echoutil.LogHandlerFunc(func(c echo.Context) error {
			called += 1
			return boom
		})

		c, _ := httptestutil.Get(e, "/rest/projects")
		if err := h(c); !errors.Is(err, boom) {
			t.Errorf("unexpected error: %v", err)
		}
		if called != 1 {
			t.Errorf("handler is called %d times", called)
		}
	})

	t.Run("it keeps response of wrapped handler", func(t *testing.T) {
		e := echo.New()
		h := echoutil.LogHandlerFunc(func(c echo.Context) error {
			return c.NoContent(http.StatusNoContent)
		})
		c, resp := httptestutil.Get(e, "/rest/projects")
		if err := h(c); err != nil {
			t.Fatal(err)
		}
		if resp.Code != http.StatusNoContent {
			t.Errorf("unexpected status: %d", resp.Code)
		}
	})
}
