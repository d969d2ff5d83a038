// Command fragments-demo runs the deferred-rendering engine headlessly
// against an in-process stub rendering service. It assembles a page from a
// YAML definition, hydrates it, replays a small interaction script, and
// prints the resulting document and page URL.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	_ "embed"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/hanko-fragments/internal/fragment/dom"
	"finitefield.org/hanko-fragments/internal/fragment/engine"
	"finitefield.org/hanko-fragments/internal/fragment/pagedef"
	"finitefield.org/hanko-fragments/internal/fragment/renderclient"
	"finitefield.org/hanko-fragments/internal/fragment/renderstub"
	"finitefield.org/hanko-fragments/internal/fragment/urlstate"
	"finitefield.org/hanko-fragments/internal/platform/observability"
)

//go:embed demo-page.yaml
var defaultPageDef []byte

func main() {
	var (
		addr     string
		pagePath string
		pageURL  string
	)
	flag.StringVar(&addr, "addr", "127.0.0.1:8941", "stub render service listen address")
	flag.StringVar(&pagePath, "page", "", "page definition yaml (defaults to the embedded demo page)")
	flag.StringVar(&pageURL, "page-url", "https://demo.invalid/pages/fragments?title=Demo:Fragments", "initial page URL")
	flag.Parse()

	logger, err := observability.NewLogger()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(addr, pagePath, pageURL, logger); err != nil {
		logger.Fatal("demo run failed", zap.Error(err))
	}
}

func run(addr, pagePath, pageURL string, logger *zap.Logger) error {
	// Stub rendering service.
	svc := renderstub.New(logger, sampleLists())
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))
	router.Mount("/api", renderstub.Handler(svc, logger))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	server := &http.Server{Handler: router}
	go func() { _ = server.Serve(ln) }()
	defer func() { _ = server.Shutdown(context.Background()) }()

	// Page assembly.
	raw := defaultPageDef
	if pagePath != "" {
		raw, err = os.ReadFile(pagePath)
		if err != nil {
			return fmt.Errorf("read page definition: %w", err)
		}
	}
	page, err := pagedef.Load(bytes.NewReader(raw))
	if err != nil {
		return err
	}
	body, err := page.HTML()
	if err != nil {
		return err
	}
	doc, err := dom.ParseString("<html><body>" + body + "</body></html>")
	if err != nil {
		return fmt.Errorf("parse page: %w", err)
	}

	urlState, err := urlstate.NewPageURL(pageURL)
	if err != nil {
		return fmt.Errorf("parse page url: %w", err)
	}
	viewport := engine.NewSimViewport()
	client := renderclient.New("http://"+ln.Addr().String()+"/api", renderclient.WithLogger(logger))

	eng := engine.New(doc, client,
		engine.WithLogger(logger),
		engine.WithURLState(urlState),
		engine.WithViewport(viewport))
	defer eng.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Hydrate, then scroll everything into view.
	eng.Hydrate()
	if err := eng.Idle(ctx); err != nil {
		return err
	}
	viewport.RevealAll()
	if err := eng.Idle(ctx); err != nil {
		return err
	}

	// Interact: search, jump to the second result page, extend the gallery.
	eng.Submit("search-form", url.Values{"q": {"seal"}, "limit": {"3"}})
	if err := eng.Idle(ctx); err != nil {
		return err
	}
	eng.ClickMatch(`#results-pager button[data-indicator="number"][data-target-offset="3"]`)
	eng.Click("gallery-more")
	if err := eng.Idle(ctx); err != nil {
		return err
	}

	final, err := eng.HTML(ctx)
	if err != nil {
		return err
	}
	fmt.Println(final)
	logger.Info("final page state",
		zap.String("url", urlState.String()),
		zap.Strings("scrolled", viewport.Scrolled()))
	return nil
}
