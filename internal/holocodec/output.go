package holocodec

import (
	"fmt"
	"os"

	"github.com/faanross/holocast/internal/audioio"
	"github.com/faanross/holocast/internal/imageio"
)

// WriteResult serializes a DecodeResult to outPath using the appropriate
// external writer for its kind — image/audio file I/O is treated as an
// external collaborator per spec, here provided by imageio/audioio.
func WriteResult(result *DecodeResult, outPath string) error {
	switch result.Kind {
	case KindImage:
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("holocodec: create output image: %w", err)
		}
		defer f.Close()
		if err := imageio.EncodeByExt(f, outPath, result.Image); err != nil {
			return err
		}
		return nil
	case KindAudio:
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("holocodec: create output wav: %w", err)
		}
		defer f.Close()
		return audioio.Write(f, result.Audio)
	default:
		if err := os.WriteFile(outPath, result.Binary, 0o644); err != nil {
			return fmt.Errorf("holocodec: write output binary: %w", err)
		}
		return nil
	}
}
