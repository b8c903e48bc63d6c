// Package demoserver serves a deliberately flawed website for exercising the
// audit engine end to end: reflected parameters, a fake SQL error page, a
// tokenless login form, missing security headers and an exposed env file.
package demoserver

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
)

// DemoServer is a simple HTTP server that exhibits the defect classes the
// scanner looks for.
type DemoServer struct {
	cfg Config
	mu  sync.RWMutex
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	return &DemoServer{cfg: cfg}
}

// Handler builds the full route table. Split out from Start so tests can
// mount it on an httptest server.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.homeHandler)
	mux.HandleFunc("/search", s.searchHandler)
	mux.HandleFunc("/login", s.loginHandler)
	mux.HandleFunc("/contact", s.contactHandler)
	mux.HandleFunc("/.env", s.envHandler)
	mux.HandleFunc("/admin", s.adminHandler)
	return mux
}

// Start starts the demo server.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo server starting on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *DemoServer) hardened() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Hardened
}

// SetHardened toggles the variant at runtime so one process can demo both.
func (s *DemoServer) SetHardened(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Hardened = v
}

func (s *DemoServer) writeHeaders(w http.ResponseWriter) {
	if s.hardened() {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", "default-src 'self'")
		h.Set("Strict-Transport-Security", "max-age=31536000")
		h.Set("Referrer-Policy", "no-referrer")
	}
	// The vulnerable variant sets nothing at all.
}

const homePage = `<!DOCTYPE html>
<html>
<head>
	<title>Demo Shop</title>
</head>
<body>
	<header><h1>Demo Shop</h1></header>
	<nav><a href="/search">Search</a> <a href="/login">Login</a> <a href="/contact">Contact</a></nav>
	<main>
		<p>Welcome to the demo shop.</p>
		<img src="/static/banner.png">
		<img src="/static/logo.png">
	</main>
	<footer>powered by demoshop 0.1</footer>
</body>
</html>`

func (s *DemoServer) homeHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.writeHeaders(w)
	w.Header().Set("Server", "demoshop/0.1 (go)")
	http.SetCookie(w, &http.Cookie{Name: "session", Value: "demo", Path: "/"})
	fmt.Fprint(w, homePage)
}

// searchHandler reflects the query parameter. The vulnerable variant echoes
// it raw and leaks a fake SQL error on a quote character.
func (s *DemoServer) searchHandler(w http.ResponseWriter, r *http.Request) {
	s.writeHeaders(w)
	q := r.URL.Query().Get("q")

	if !s.hardened() {
		if strings.ContainsAny(q, `'"`) {
			fmt.Fprintf(w, `<html><body><h1>Error</h1>
<p>You have an error in your SQL syntax; check the manual that corresponds to your MySQL server version for the right syntax to use near '%s' at line 1</p>
</body></html>`, q)
			return
		}
		fmt.Fprintf(w, `<html><body>
<form action="/search" method="get"><input name="q" value=""><button>Search</button></form>
<p>Results for: %s</p>
</body></html>`, q)
		return
	}

	fmt.Fprintf(w, `<html><body>
<form action="/search" method="get"><label for="q">Query</label><input id="q" name="q"><button>Search</button></form>
<p>Results for: %s</p>
</body></html>`, template.HTMLEscapeString(q))
}

func (s *DemoServer) loginHandler(w http.ResponseWriter, r *http.Request) {
	s.writeHeaders(w)
	if s.hardened() {
		fmt.Fprint(w, `<html><body><main>
<form action="/login" method="post">
	<input type="hidden" name="csrf_token" value="d3m0t0k3n">
	<label for="user">Username</label><input id="user" name="user">
	<label for="pass">Password</label><input id="pass" type="password" name="pass" autocomplete="current-password">
	<button>Sign in</button>
</form>
</main></body></html>`)
		return
	}
	fmt.Fprint(w, `<html><body>
<form action="/login" method="post">
	<input name="user" placeholder="Username">
	<input type="password" name="pass" placeholder="Password">
	<button>Sign in</button>
</form>
</body></html>`)
}

func (s *DemoServer) contactHandler(w http.ResponseWriter, r *http.Request) {
	s.writeHeaders(w)
	fmt.Fprint(w, `<html><body>
<form action="/contact" method="post">
	<input name="email" placeholder="Email">
	<input name="website_url" placeholder="Your website">
	<textarea name="message"></textarea>
	<button>Send</button>
</form>
</body></html>`)
}

// envHandler exposes a fake env file in the vulnerable variant.
func (s *DemoServer) envHandler(w http.ResponseWriter, r *http.Request) {
	if s.hardened() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, "DB_PASSWORD=hunter2\nAPP_SECRET=not-a-real-secret\n")
}

func (s *DemoServer) adminHandler(w http.ResponseWriter, r *http.Request) {
	if s.hardened() {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "forbidden")
		return
	}
	s.writeHeaders(w)
	fmt.Fprint(w, `<html><body><h1>Admin</h1><p>Everything is allowed here.</p></body></html>`)
}
