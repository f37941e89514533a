package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rawbytedev/dynbox"
)

type summer interface{ Sum() int64 }

type sample struct{ A, B, C, D int64 }

func (s sample) Sum() int64 { return s.A + s.B + s.C + s.D }

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	box := dynbox.New[summer](64)
	defer box.Close()

	var total int64
	for i := 0; i < 10000; i++ {
		dynbox.Set(box, sample{A: int64(i), B: 1, C: 2, D: 3})
		if s, ok := box.Get(); ok {
			total += s.Sum()
		}
	}
	log.Printf("total=%d", total)

	pprof.WriteHeapProfile(f)
	time.Sleep(5 * time.Minute)
}
