package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestIsNewerVersion(t *testing.T) {
	testCases := []struct {
		latest, current string
		want            bool
	}{
		{"1.2.0", "1.1.9", true},
		{"v1.2.0", "1.2.0", false},
		{"1.10.0", "1.9.0", true},
		{"1.0.0", "1.0.0-rc.1", true},
		{"1.0.0", "2.0.0", false},
	}
	for _, tc := range testCases {
		t.Run(tc.latest+"_vs_"+tc.current, func(t *testing.T) {
			gt.Value(t, isNewerVersion(tc.latest, tc.current)).Equal(tc.want)
		})
	}
}

func TestNormalizeVersion(t *testing.T) {
	gt.Value(t, normalizeVersion(" v1.2.3 ")).Equal("1.2.3")
	gt.Value(t, normalizeVersion("dev")).Equal("dev")
}

func newReleaseServer(t *testing.T, status int, body string) *VersionChecker {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/"+githubRepo+"/releases/latest" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	vc := NewVersionChecker()
	vc.client = ts.Client()
	vc.baseURL = ts.URL
	return vc
}

func TestVersionChecker_Check(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "v1.0.0"

	t.Run("newer release", func(t *testing.T) {
		vc := newReleaseServer(t, http.StatusOK, `{"tag_name":"v1.1.0"}`)
		gt.NoError(t, vc.check(context.Background())).Required()

		info := vc.Info()
		gt.Value(t, info.Current).Equal("1.0.0")
		gt.Value(t, info.Latest).Equal("1.1.0")
		gt.Bool(t, info.UpdateAvail).True()
		gt.Value(t, vc.etag).Equal(`"abc"`)
	})

	t.Run("prerelease is ignored", func(t *testing.T) {
		vc := newReleaseServer(t, http.StatusOK, `{"tag_name":"v2.0.0-rc.1","prerelease":true}`)
		gt.NoError(t, vc.check(context.Background()))
		gt.Value(t, vc.Info().Latest).Equal("")
	})

	t.Run("server error", func(t *testing.T) {
		vc := newReleaseServer(t, http.StatusBadGateway, "")
		gt.Value(t, vc.check(context.Background())).NotNil()
	})

	t.Run("rate limited", func(t *testing.T) {
		vc := newReleaseServer(t, http.StatusForbidden, "")
		gt.Value(t, vc.check(context.Background())).NotNil()
		gt.Value(t, vc.Info().Latest).Equal("")
	})

	t.Run("no releases yet", func(t *testing.T) {
		vc := newReleaseServer(t, http.StatusNotFound, "")
		gt.NoError(t, vc.check(context.Background()))
	})
}

func TestVersionChecker_DevBuild(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "dev"

	vc := newReleaseServer(t, http.StatusOK, `{"tag_name":"v9.9.9"}`)
	gt.NoError(t, vc.check(context.Background())).Required()
	gt.Bool(t, vc.Info().UpdateAvail).False()
}
