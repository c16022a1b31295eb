// Package monitoring turns a running verification environment into a small
// web server, so the progress of a long run can be watched and the engine
// paused and continued from outside the process.
package monitoring

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sarchlab/vtb/verify"
)

// A Server exposes one environment over HTTP.
type Server struct {
	env        *verify.Env
	portNumber int
}

// NewServer creates a Server for the given environment.
func NewServer(env *verify.Env) *Server {
	return &Server{env: env}
}

// WithPortNumber sets the port number of the server. Ports below 1000 are
// rejected and a random port is used instead.
func (s *Server) WithPortNumber(portNumber int) *Server {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is not allowed for the progress server. "+
				"Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	s.portNumber = portNumber

	return s
}

// Router builds the route table of the server.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/now", s.now)
	r.HandleFunc("/api/state", s.state)
	r.HandleFunc("/api/progress", s.progress)
	r.HandleFunc("/api/coverage", s.coverage)
	r.HandleFunc("/api/pause", s.pauseEngine)
	r.HandleFunc("/api/continue", s.continueEngine)

	return r
}

// StartServer starts serving in the background and returns the bound port.
func (s *Server) StartServer() int {
	actualPort := ":0"
	if s.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(s.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	fmt.Fprintf(os.Stderr,
		"Monitoring run with http://localhost:%d\n", port)

	r := s.Router()

	go func() {
		dieOnErr(http.Serve(listener, r))
	}()

	return port
}

func (s *Server) now(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"now\":%d}", s.env.Engine().CurrentTick())
}

func (s *Server) state(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"state\":%q}", s.env.State())
}

type progressReply struct {
	Issued   uint64 `json:"issued"`
	Observed uint64 `json:"observed"`
}

func (s *Server) progress(w http.ResponseWriter, _ *http.Request) {
	reply := progressReply{
		Issued:   s.env.Issued(),
		Observed: s.env.Observed(),
	}

	err := json.NewEncoder(w).Encode(reply)
	dieOnErr(err)
}

func (s *Server) coverage(w http.ResponseWriter, _ *http.Request) {
	err := json.NewEncoder(w).Encode(s.env.CoverageReport())
	dieOnErr(err)
}

func (s *Server) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	s.env.Engine().Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (s *Server) continueEngine(w http.ResponseWriter, _ *http.Request) {
	s.env.Engine().Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		panic(err)
	}
}
