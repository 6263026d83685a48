package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/valeriapadilla/ChatBot-Ecommerce/api"
	"github.com/valeriapadilla/ChatBot-Ecommerce/catalog"
	"github.com/valeriapadilla/ChatBot-Ecommerce/chat"
	"github.com/valeriapadilla/ChatBot-Ecommerce/config"
	"github.com/valeriapadilla/ChatBot-Ecommerce/session"
	"github.com/valeriapadilla/ChatBot-Ecommerce/storage"
	"github.com/valeriapadilla/ChatBot-Ecommerce/ui"
)

const Version = "v0.01.00"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())
	if config.DebugLog != nil {
		config.DebugLog.Printf("shopchat %s starting, api=%s", Version, cfg.APIBaseURL)
	}

	local, err := storage.NewLocalStore(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to open local store: %v\n", err)
		os.Exit(1)
	}
	defer local.Close()

	client, err := api.NewClient(cfg.APIBaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second)
	if err != nil {
		fmt.Printf("Invalid API configuration: %v\n", err)
		os.Exit(1)
	}

	creds := storage.NewCredentialStore(local)
	sess := session.NewSession(client, creds)
	sess.Check()

	chats := chat.NewStore(client, sess, chat.Options{
		HistoryPageSize: cfg.HistoryPageSize,
		OlderPageSize:   cfg.OlderPageSize,
		ContextWindow:   cfg.ContextWindow,
	})

	cache, err := catalog.NewCache(cfg.DataDir())
	if err != nil {
		// Offline product fallback is unavailable without the cache
		if config.DebugLog != nil {
			config.DebugLog.Printf("Product cache init failed: %v (cache disabled)", err)
		}
		cache = nil
	} else {
		defer cache.Close()
	}

	products := catalog.NewStore(client, sess, cache, cfg.ProductPageSize)

	p := tea.NewProgram(
		ui.NewApp(cfg, sess, chats, products),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running shopchat: %v\n", err)
		os.Exit(1)
	}
}
