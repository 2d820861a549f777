package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/text-extractor-mcp/internal/config"
	"github.com/ironsheep/text-extractor-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("text-extractor-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("text-extractor-mcp - MCP server that finds and annotates text in images")
			fmt.Println()
			fmt.Println("Usage: text-extractor-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  TEXT_EXTRACTOR_LOG_LEVEL=debug            Enable debug logging")
			fmt.Println("  TEXT_EXTRACTOR_LANGUAGE=eng               Tesseract language(s), e.g. eng+deu")
			fmt.Println("  TESSDATA_PREFIX=<dir>                     Tesseract data directory")
			fmt.Println("  TEXT_EXTRACTOR_STROKE_COLOR=#FFFF00       Outline and label color")
			fmt.Println("  TEXT_EXTRACTOR_BACKGROUND=#000000         Letterbox color of rendered images")
			fmt.Println("  TEXT_EXTRACTOR_LINE_WIDTH=3               Outline width")
			fmt.Println("  TEXT_EXTRACTOR_FONT_SIZE=12               Label font size")
			fmt.Println("  TEXT_EXTRACTOR_CORRECT_MIRRORING=false    Undo mirrored EXIF orientations")
			fmt.Println("  TEXT_EXTRACTOR_NOT_FOUND_INDICATOR=false  Show \"?\" when no text is found")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	server.Version = Version
	if cfg.Debug() {
		log.Printf("Text Extractor MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Language %s, stroke %s, line width %g, font size %g",
			cfg.Language, cfg.Style.StrokeColor, cfg.Style.LineWidth, cfg.Style.FontSize)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
