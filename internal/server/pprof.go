package server

import (
	"log"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// StartPprofServer exposes the profiling endpoints on their own port,
// kept off the public listener. Reach it over an SSH tunnel.
func StartPprofServer(addr string) {
	mux := gin.New()
	pprof.Register(mux)

	go func() {
		log.Printf("pprof listening on %s", addr)
		if err := mux.Run(addr); err != nil {
			log.Fatalf("pprof server: %v", err)
		}
	}()
}
