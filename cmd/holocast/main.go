// Command holocast is the standalone codec CLI: it turns a file into a
// directory of self-describing chunks, or reassembles chunks back into a
// file, without touching the network at all.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/faanross/holocast/internal/holocodec"
	"github.com/faanross/holocast/internal/holofmt"
)

func main() {
	outDir := flag.String("out", "", "output directory for encode, or output file for decode")
	chunks := flag.Int("chunks", 0, "explicit chunk count N (0 = derive from -chunk-kb)")
	chunkKB := flag.Int("chunk-kb", holofmt.DefaultChunkKB, "target chunk size in KB (used when -chunks is 0; 0 falls back to the 32 KB default)")
	maxChunks := flag.Int("max-chunks", 0, "decode: cap on chunks consumed (0 = all present)")
	decode := flag.Bool("decode", false, "treat the input path as a chunk directory to decode")

	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("usage: holocast [-decode] [-out path] [-chunks N | -chunk-kb KB] <input>")
	}
	input := flag.Arg(0)

	if *decode {
		runDecode(input, *outDir, *maxChunks)
		return
	}
	runEncode(input, *outDir, *chunks, *chunkKB)
}

func runEncode(input, outDir string, chunks, chunkKB int) {
	if outDir == "" {
		outDir = strings.TrimSuffix(input, filepath.Ext(input)) + ".holo"
	}

	// -chunks is an explicit chunk count and takes priority over -chunk-kb's
	// default; only fall back to the target-size derivation when the caller
	// didn't ask for a specific count.
	cfg := holocodec.EncodeConfig{N: chunks}
	if chunks == 0 {
		cfg.TargetChunkKB = chunkKB
	}
	if err := holocodec.Encode(input, outDir, cfg); err != nil {
		log.Fatalf("encode %s: %v", input, err)
	}

	n := chunks
	if n == 0 {
		entries, _ := os.ReadDir(outDir)
		n = len(entries)
	}
	fmt.Printf("wrote %s (%d chunks)\n", outDir, n)
}

func runDecode(input, outPath string, maxChunks int) {
	result, err := holocodec.Decode(input, maxChunks)
	if err != nil {
		log.Fatalf("decode %s: %v", input, err)
	}

	if outPath == "" {
		outPath = strings.TrimSuffix(input, ".holo")
		if outPath == input {
			outPath = input + ".out"
		}
	}

	if err := holocodec.WriteResult(result, outPath); err != nil {
		log.Fatalf("write %s: %v", outPath, err)
	}
	fmt.Printf("wrote %s from %d/%d chunks (%s)\n", outPath, result.ChunksPresent, result.N, result.Kind)
}
