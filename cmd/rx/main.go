// Command rx is the UDP receiver: it listens for chunks, reassembles
// whatever subset arrives, and reconstructs the source file once the
// sender goes idle (§4.6).
package main

import (
	"flag"
	"log"
	"time"

	"github.com/faanross/holocast/internal/holofmt"
	"github.com/faanross/holocast/internal/holonet"
	"github.com/faanross/holocast/internal/secureoverlay"
)

func main() {
	port := flag.Int("port", 9999, "listen port")
	baseDir := flag.String("base-dir", ".", "directory for in-progress transfers and reconstructed output")
	idleTimeout := flag.Duration("idle-timeout", holofmt.DefaultIdleTimeout*time.Second, "idle period with no datagrams before decoding")
	payload := flag.Int("payload", holofmt.DefaultRxMaxPayload, "read buffer size in bytes; sized to the max UDP datagram so it fits any sender's -payload")
	decodeMode := flag.String("decode-mode", "best", "best: reconstruct from whatever arrived; strict: require every chunk")
	passphrase := flag.String("passphrase", "", "optional shared passphrase enabling the secure overlay")
	askPassphrase := flag.Bool("ask-passphrase", false, "prompt for the passphrase instead of passing it on the command line")

	flag.Parse()

	pass := *passphrase
	if *askPassphrase {
		p, err := secureoverlay.PromptPassphrase("passphrase: ")
		if err != nil {
			log.Fatalf("passphrase: %v", err)
		}
		pass = string(p)
	}

	cfg := holonet.ReceiveConfig{
		Port:        *port,
		BaseDir:     *baseDir,
		IdleTimeout: *idleTimeout,
		MaxPayload:  *payload,
		DecodeMode:  *decodeMode,
		Passphrase:  pass,
	}

	log.Printf("listening on :%d (decode-mode=%s, idle-timeout=%s)", cfg.Port, cfg.DecodeMode, cfg.IdleTimeout)
	if err := holonet.Run(cfg); err != nil {
		log.Fatalf("receive: %v", err)
	}
	log.Println("transfer complete")
}
