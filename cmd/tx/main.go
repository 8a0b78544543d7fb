// Command tx is the UDP transmitter: it encodes a file into chunks and
// streams them at a receiver, looping over shuffled order with no
// acknowledgements (§4.5).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/faanross/holocast/internal/dnsdiscover"
	"github.com/faanross/holocast/internal/holocodec"
	"github.com/faanross/holocast/internal/holofmt"
	"github.com/faanross/holocast/internal/holonet"
	"github.com/faanross/holocast/internal/secureoverlay"
)

func main() {
	host := flag.String("host", "127.0.0.1", "receiver host")
	port := flag.Int("port", 9999, "receiver port")
	chunkKB := flag.Int("chunk-kb", holofmt.DefaultChunkKB, "target chunk size in KB (0 falls back to the 32 KB default)")
	loops := flag.Int("loops", holofmt.DefaultLoops, "redundancy loops")
	payload := flag.Int("payload", holofmt.DefaultMaxPayload, "max UDP payload bytes, header included")
	delay := flag.Duration("delay", 0, "delay between datagrams")
	passphrase := flag.String("passphrase", "", "optional shared passphrase enabling the secure overlay")
	askPassphrase := flag.Bool("ask-passphrase", false, "prompt for the passphrase instead of passing it on the command line")
	dnsDiscover := flag.String("dns-discover", "", "SRV service name to resolve host:port from (overrides -host/-port)")
	resolver := flag.String("resolver", "127.0.0.1:53", "DNS resolver used by -dns-discover")

	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("usage: tx [flags] <file> [host]")
	}
	input := flag.Arg(0)
	if flag.NArg() >= 2 {
		*host = flag.Arg(1)
	}

	pass := *passphrase
	if *askPassphrase {
		p, err := secureoverlay.PromptPassphrase("passphrase: ")
		if err != nil {
			log.Fatalf("passphrase: %v", err)
		}
		pass = string(p)
	}

	targetHost, targetPort := *host, *port
	if *dnsDiscover != "" {
		h, p, err := dnsdiscover.Resolve(*resolver, *dnsDiscover)
		if err != nil {
			log.Fatalf("dns-discover %s: %v", *dnsDiscover, err)
		}
		targetHost, targetPort = h, p
		fmt.Printf("resolved %s -> %s:%d\n", *dnsDiscover, targetHost, targetPort)
	}

	chunkDir, err := os.MkdirTemp("", "holocast-tx-*")
	if err != nil {
		log.Fatalf("mkdir temp: %v", err)
	}

	if err := holocodec.Encode(input, chunkDir, holocodec.EncodeConfig{TargetChunkKB: *chunkKB}); err != nil {
		os.RemoveAll(chunkDir)
		log.Fatalf("encode %s: %v", input, err)
	}

	cfg := holonet.TransmitConfig{
		MaxPayload: *payload,
		Loops:      *loops,
		Delay:      *delay,
		Passphrase: pass,
	}

	fileName := filepath.Base(input)
	fmt.Printf("sending %s to %s:%d over %d loops\n", fileName, targetHost, targetPort, cfg.Loops)

	start := time.Now()
	if err := holonet.Send(chunkDir, fileName, targetHost, targetPort, cfg); err != nil {
		log.Fatalf("send: %v", err)
	}
	fmt.Printf("done in %s\n", time.Since(start).Round(time.Millisecond))
}
