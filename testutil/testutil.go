package testutil

// Helpers and a fake upstream for tests.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Upstream fakes every remote endpoint the pipeline talks to: the
// OAuth token endpoint, the mobile service endpoint, the stop detail
// page and the static dataset files. Each handler counts its calls so
// tests can assert on caching behavior.
type Upstream struct {
	Server *httptest.Server

	mutex sync.Mutex

	AuthCalls    int
	ServiceCalls int
	PageCalls    int
	StopsCalls   int
	LinesCalls   int

	// Zero status means 200.
	AuthStatus    int
	ServiceStatus int
	PageStatus    int
	DatasetStatus int

	AccessToken string
	ExpiresIn   int

	// ServiceItems maps alias name to the raw item list returned for
	// it. Aliases without an entry return an empty list.
	ServiceItems map[string][]map[string]any

	PageHTML string

	// Authorization header seen on the most recent service call.
	LastAuthorization string

	Stops []map[string]string
	Lines []map[string]string
}

func NewUpstream(t testing.TB) *Upstream {
	u := &Upstream{
		AccessToken:  "test-token",
		ExpiresIn:    3600,
		ServiceItems: map[string][]map[string]any{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/v2/auth", u.handleAuth)
	mux.HandleFunc("/service", u.handleService)
	mux.HandleFunc("/StationDetail", u.handlePage)
	mux.HandleFunc("/stations.json", u.handleStops)
	mux.HandleFunc("/buss.json", u.handleLines)

	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Server.Close)

	return u
}

func (u *Upstream) URL(path string) string {
	return u.Server.URL + path
}

// PageURLTemplate returns the stop detail URL with a %s placeholder
// for the stop code.
func (u *Upstream) PageURLTemplate() string {
	return u.Server.URL + "/StationDetail?dkod=%s"
}

func (u *Upstream) handleAuth(w http.ResponseWriter, r *http.Request) {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	u.AuthCalls++

	if u.AuthStatus != 0 && u.AuthStatus != http.StatusOK {
		w.WriteHeader(u.AuthStatus)
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"access_token": u.AccessToken,
		"expires_in":   u.ExpiresIn,
	})
}

func (u *Upstream) handleService(w http.ResponseWriter, r *http.Request) {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	u.ServiceCalls++
	u.LastAuthorization = r.Header.Get("Authorization")

	if u.ServiceStatus != 0 && u.ServiceStatus != http.StatusOK {
		w.WriteHeader(u.ServiceStatus)
		return
	}

	var query struct {
		Alias string `json:"alias"`
	}
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	items := u.ServiceItems[query.Alias]
	if items == nil {
		items = []map[string]any{}
	}
	json.NewEncoder(w).Encode(items)
}

func (u *Upstream) handlePage(w http.ResponseWriter, r *http.Request) {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	u.PageCalls++

	if u.PageStatus != 0 && u.PageStatus != http.StatusOK {
		w.WriteHeader(u.PageStatus)
		return
	}

	fmt.Fprint(w, u.PageHTML)
}

func (u *Upstream) handleStops(w http.ResponseWriter, r *http.Request) {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	u.StopsCalls++

	if u.DatasetStatus != 0 && u.DatasetStatus != http.StatusOK {
		w.WriteHeader(u.DatasetStatus)
		return
	}

	json.NewEncoder(w).Encode(u.Stops)
}

func (u *Upstream) handleLines(w http.ResponseWriter, r *http.Request) {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	u.LinesCalls++

	if u.DatasetStatus != 0 && u.DatasetStatus != http.StatusOK {
		w.WriteHeader(u.DatasetStatus)
		return
	}

	json.NewEncoder(w).Encode(u.Lines)
}

// Counts returns a snapshot of all call counters.
func (u *Upstream) Counts() (auth, service, page, stops, lines int) {
	u.mutex.Lock()
	defer u.mutex.Unlock()
	return u.AuthCalls, u.ServiceCalls, u.PageCalls, u.StopsCalls, u.LinesCalls
}

func RequireJSON(t testing.TB, body []byte, target any) {
	require.NoError(t, json.Unmarshal(body, target))
}
