package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

func main() {
	host := flag.String("host", "0.0.0.0", "Listen host")
	port := flag.Int("port", 5000, "Listen port")
	debug := flag.Bool("debug", false, "Enable debug mode")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Twitter Backup Viewer - read-only web interface\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <db_path>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	dbPath := flag.Arg(0)
	if _, err := os.Stat(dbPath); err != nil {
		log.Fatalf("Database file not found: %s", dbPath)
	}
	dataRoot := filepath.Dir(dbPath)

	db, err := NewViewerDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := NewHandler(db, dataRoot)
	translation := NewTranslationHandler()

	router := gin.Default()

	api := router.Group("/api")
	{
		api.GET("/tweets", handler.ListTweets)
		api.GET("/tweets/:id", handler.GetTweet)
		api.GET("/search", handler.SearchTweets)
		api.GET("/users/:id", handler.GetUser)
		api.GET("/stats", handler.GetStats)

		api.POST("/translate", translation.Translate)
		api.POST("/detect-language", translation.DetectLanguage)
		api.GET("/supported-languages", translation.SupportedLanguages)
	}

	router.Static("/img", filepath.Join(dataRoot, "img"))
	router.Static("/avatar", filepath.Join(dataRoot, "avatar"))

	addr := fmt.Sprintf("%s:%d", *host, *port)
	log.Printf("Viewer listening on %s (store: %s)", addr, dbPath)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
