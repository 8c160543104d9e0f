// buildcontent assembles the consolidated content index from the markdown
// sources. Run it whenever the content directory changes; the server only
// ever reads the generated file.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/amara/scholarfind/internal/content"
)

func main() {
	contentDir := flag.String("content", "content", "directory holding opportunities/ and blog/ markdown sources")
	outPath := flag.String("out", "data/content.json", "path to write the consolidated index")
	flag.Parse()

	file, err := content.BuildDir(*contentDir)
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *outPath, err)
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		log.Fatalf("Failed to write index: %v", err)
	}

	log.Printf("Wrote %d opportunities and %d blog posts to %s",
		len(file.Opportunities), len(file.Blog), *outPath)
}
