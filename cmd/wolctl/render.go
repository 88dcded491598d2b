package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/walloflove/wol-server/internal/dom"
	"github.com/walloflove/wol-server/internal/embed"
	"github.com/walloflove/wol-server/internal/task"
)

type renderOptions struct {
	apiBase   string
	widgetID  string
	scriptURL string
	pageFile  string
	track     bool
	timeout   time.Duration
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Bootstrap widgets headlessly and print the resulting page",
		Long: "Runs the embed bootstrapper against a live widget API and writes the rendered HTML to stdout.\n" +
			"With --page, every embed script already on the host page is mounted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.apiBase, "api", "", "Widget API base URL (defaults to the script URL's origin)")
	cmd.Flags().StringVar(&opts.widgetID, "widget", "", "Widget id to embed")
	cmd.Flags().StringVar(&opts.scriptURL, "script-url", "", "Embed script URL to mount")
	cmd.Flags().StringVar(&opts.pageFile, "page", "", "Host HTML page to mount into")
	cmd.Flags().BoolVar(&opts.track, "track", false, "Report views and clicks to the API")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Widget request timeout")
	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions) error {
	page, err := loadPage(opts.pageFile)
	if err != nil {
		return err
	}

	src := opts.scriptURL
	if src == "" && opts.widgetID != "" {
		if opts.apiBase == "" {
			return errors.New("--widget needs --api")
		}
		src = strings.TrimRight(opts.apiBase, "/") + "/widget/" + opts.widgetID + ".js"
	}
	if src == "" && opts.pageFile == "" {
		return errors.New("one of --widget, --script-url or --page is required")
	}

	apiBase := opts.apiBase
	if apiBase == "" {
		if src == "" {
			return errors.New("--page needs --api")
		}
		if apiBase, err = originOf(src); err != nil {
			return err
		}
	}

	log := root.logger(cmd.ErrOrStderr())
	client := embed.NewHTTPClient(apiBase, opts.timeout, log.Component("client"))

	var tasks *task.Queue
	var submitter task.Submitter
	if opts.track {
		tasks = task.New(task.Config{Workers: 1, QueueSize: 16, TaskTimeout: opts.timeout}, log.Component("tasks"))
		tasks.Start()
		submitter = tasks
	}

	b := embed.NewBootstrapper(client, submitter, embed.Config{RequestTimeout: opts.timeout}, log.Component("embed"))

	ctx := cmd.Context()
	var sessions []*embed.Session
	if src != "" {
		script := appendScript(page, src)
		s, err := b.Mount(ctx, page, script)
		if err != nil {
			return err
		}
		sessions = append(sessions, s)
	} else {
		sessions = b.MountAll(ctx, page)
	}

	for _, s := range sessions {
		s.Close()
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", s.WidgetID, s.State())
	}

	if tasks != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), opts.timeout)
		defer cancel()
		if err := tasks.Stop(stopCtx); err != nil {
			log.Warn("tracking did not finish", "error", err)
		}
	}

	return page.Render(cmd.OutOrStdout())
}

func loadPage(path string) (*dom.Page, error) {
	if path == "" {
		return dom.NewPage(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	return dom.ParsePage(f)
}

func appendScript(page *dom.Page, src string) (n *html.Node) {
	page.Mutate(func() { n = page.AppendScript(src) })
	return n
}

// originOf returns scheme://host of an absolute URL.
func originOf(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("cannot derive API origin from %q; pass --api", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}
