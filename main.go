package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/geocine/bookcat/internal/catalog"
	"github.com/geocine/bookcat/internal/cli"
	"github.com/geocine/bookcat/internal/config"
	"github.com/geocine/bookcat/internal/epub"
	"github.com/geocine/bookcat/internal/export"
	"github.com/geocine/bookcat/internal/fetch"
	"github.com/geocine/bookcat/internal/library"
	"github.com/geocine/bookcat/internal/models"
	"github.com/geocine/bookcat/internal/render"
	"github.com/geocine/bookcat/internal/rules"
	"github.com/geocine/bookcat/internal/thumbs"
)

// catalogFlags are the flags shared by every output command
type catalogFlags struct {
	configPath  string
	library     string
	search      string
	output      string
	verbose     bool
	logFile     string
	noExternals bool
}

func addCatalogFlags(fs *flag.FlagSet) *catalogFlags {
	f := &catalogFlags{}
	fs.StringVar(&f.configPath, "config", "catalog.toml", "Path to the configuration file")
	fs.StringVar(&f.library, "library", "", "Library directory (overrides config)")
	fs.StringVar(&f.search, "search", "", "Search expression (overrides config)")
	fs.StringVar(&f.output, "output", "", "Output file (defaults to the configured basename)")
	fs.BoolVar(&f.verbose, "verbose", false, "Enable verbose output")
	fs.StringVar(&f.logFile, "log-file", "", "Append logs to a rotating file")
	fs.BoolVar(&f.noExternals, "no-externals", false, "Disable external processors")
	return f
}

func main() {
	epubCmd := flag.NewFlagSet("epub", flag.ExitOnError)
	epubFlags := addCatalogFlags(epubCmd)
	epubKindle := epubCmd.Bool("kindle", false, "Generate for Kindle readers")

	csvCmd := flag.NewFlagSet("csv", flag.ExitOnError)
	csvFlags := addCatalogFlags(csvCmd)

	xmlCmd := flag.NewFlagSet("xml", flag.ExitOnError)
	xmlFlags := addCatalogFlags(xmlCmd)

	bibtexCmd := flag.NewFlagSet("bibtex", flag.ExitOnError)
	bibtexFlags := addCatalogFlags(bibtexCmd)

	initCmd := flag.NewFlagSet("init", flag.ExitOnError)
	initDir := initCmd.String("dir", "", "Project directory (or pass as positional)")
	initTitle := initCmd.String("title", "", "Catalog title (defaults to directory name)")
	initLibrary := initCmd.String("library", "", "Library directory")
	initYes := initCmd.Bool("yes", false, "Skip interactive prompts and use provided/default values")

	if len(os.Args) < 2 {
		fmt.Println("Usage: bookcat [command]")
		fmt.Println("Commands:")
		fmt.Println("  epub       Build the EPUB catalog")
		fmt.Println("  csv        Export the catalog as CSV")
		fmt.Println("  xml        Export the catalog as XML")
		fmt.Println("  bibtex     Export the catalog as BibTeX")
		fmt.Println("  init       Initialize a new catalog project")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "epub":
		epubCmd.Parse(os.Args[2:])
		cfg := loadConfig(epubFlags)
		if *epubKindle {
			cfg.Epub.GenerateForKindle = true
		}
		for _, note := range cfg.Normalize() {
			log.Warn(note)
		}
		handleEpub(cfg, epubFlags)

	case "csv":
		csvCmd.Parse(os.Args[2:])
		handleExport(loadConfig(csvFlags), csvFlags, "csv", "csv", export.WriteCSV)

	case "xml":
		xmlCmd.Parse(os.Args[2:])
		handleExport(loadConfig(xmlFlags), xmlFlags, "xml", "xml", export.WriteXML)

	case "bibtex":
		bibtexCmd.Parse(os.Args[2:])
		handleExport(loadConfig(bibtexFlags), bibtexFlags, "bibtex", "bib", export.WriteBibtex)

	case "init":
		initCmd.Parse(os.Args[2:])
		handleInit(initCmd, *initDir, *initTitle, *initLibrary, *initYes)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

// loadConfig loads the configuration, applies flag overrides and sets up
// logging for the run
func loadConfig(flags *catalogFlags) *config.Config {
	setupLogging(flags)

	cfg, err := config.LoadFromFile(flags.configPath)
	if err != nil {
		log.Warnf("could not load config file: %v, using defaults", err)
		cfg = config.NewDefaultConfig()
	}

	if flags.library != "" {
		cfg.Catalog.Library = flags.library
	}
	if flags.search != "" {
		cfg.Catalog.Search = flags.search
	}
	return cfg
}

func setupLogging(flags *catalogFlags) {
	if flags.verbose {
		log.SetLevel(log.DebugLevel)
	}
	if flags.logFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   flags.logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
	}
}

// fetchBooks runs the shared selection pipeline for one output format
func fetchBooks(cfg *config.Config, flags *catalogFlags, format string) ([]*models.Book, error) {
	ruleset := rules.Default()
	if cfg.Catalog.Rules != "" {
		var err error
		if ruleset, err = rules.LoadFromFile(cfg.Catalog.Rules); err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
	}

	source, err := library.OpenLibrary(cfg.Catalog.Library)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	defer source.Close()

	fetcher, err := fetch.NewFetcher(source, cfg, ruleset)
	if err != nil {
		return nil, err
	}
	fetcher.SetDisableExternals(flags.noExternals)

	return fetcher.Fetch(format)
}

func handleEpub(cfg *config.Config, flags *catalogFlags) {
	books, err := fetchBooks(cfg, flags, "epub")
	if err != nil {
		log.Fatalf("Failed to fetch books: %v", err)
	}
	fmt.Printf("Building catalog: %s (%d books)\n", cfg.Catalog.Title, len(books))

	builder, err := catalog.NewBuilder(cfg, books, time.Now())
	if err != nil {
		log.Fatalf("Failed to build catalog: %v", err)
	}

	renderer, err := render.NewRenderer(cfg, builder)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}

	var images []epub.Image
	if builder.HasSection(models.SectionDescriptions) {
		cache := thumbs.NewCache(thumbsCachePath(cfg), cfg.Epub.ThumbWidth, cfg.Epub.GenerateForKindle)
		if images, err = cache.Generate(builder.Books()); err != nil {
			log.Fatalf("Failed to generate thumbnails: %v", err)
		}
		renderer.IncludeThumbs = len(images) > 0
	}

	docs, err := renderer.Documents()
	if err != nil {
		log.Fatalf("Failed to render catalog: %v", err)
	}

	nav := epub.BuildNav(cfg, builder)
	output := outputPath(cfg, flags, "epub")
	if err := epub.NewBuilder(cfg, cfg.Catalog.Title, docs, nav, images).Build(output); err != nil {
		log.Fatalf("Failed to write EPUB: %v", err)
	}

	fmt.Printf("Catalog written to %s\n", output)
}

func handleExport(cfg *config.Config, flags *catalogFlags, format, ext string,
	write func(w io.Writer, cfg *config.Config, books []*models.Book) error) {

	books, err := fetchBooks(cfg, flags, format)
	if err != nil {
		log.Fatalf("Failed to fetch books: %v", err)
	}

	output := outputPath(cfg, flags, ext)
	f, err := os.Create(output)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	if err := write(f, cfg, books); err != nil {
		log.Fatalf("Failed to write catalog: %v", err)
	}
	fmt.Printf("Catalog written to %s (%d books)\n", output, len(books))
}

func outputPath(cfg *config.Config, flags *catalogFlags, ext string) string {
	if flags.output != "" {
		return flags.output
	}
	return cfg.Catalog.Basename + "." + ext
}

// thumbsCachePath keeps the thumbnail cache next to the library so it
// follows the covers it indexes
func thumbsCachePath(cfg *config.Config) string {
	return filepath.Join(cfg.Catalog.Library, "thumbs.zip")
}

func handleInit(initCmd *flag.FlagSet, dir, title, libraryDir string, yes bool) {
	if dir == "" {
		if initCmd.NArg() >= 1 {
			dir = initCmd.Arg(0)
		} else {
			dir = "my-catalog"
		}
	}

	opts := cli.InitOptions{
		Dir:     dir,
		Title:   title,
		Library: libraryDir,
	}
	if !yes {
		cli.FillInitOptionsInteractive(&opts)
	}

	if err := cli.Init(opts); err != nil {
		log.Fatalf("Failed to initialize project: %v", err)
	}

	fmt.Printf("\nSuccessfully created project in '%s'\n", opts.Dir)
	fmt.Println("Next steps:")
	fmt.Printf("  cd %s\n", opts.Dir)
	fmt.Println("  bookcat epub     # build the EPUB catalog")
	fmt.Println("  bookcat csv      # export as CSV")
}
