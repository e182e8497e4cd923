package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"tapnode/internal/mockapi"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	energy := flag.Int("energy", 95, "starting energy for new players")
	tapPower := flag.Int("tap-power", 10, "energy cost per tap")
	flag.Parse()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mockapi.New(*energy, *tapPower).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("mock listening on %s, point provider.baseURL at http://127.0.0.1%s/api", *addr, *addr)
	log.Fatal(srv.ListenAndServe())
}
