package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/notestore"
)

// openStore loads the configuration and opens the note store for a one-shot
// command invocation.
func openStore(cmd *cli.Command) (*notestore.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return notestore.Open(cfg.Store.Path)
}

// parseTags parses a comma-separated tag string, trimming whitespace and
// dropping empty segments.
func parseTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a new note",
		ArgsUsage: "<title> <content>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated list of tags"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("create: title and content arguments are required")
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			var tags []string
			if cmd.IsSet("tags") {
				tags = parseTags(cmd.String("tags"))
			}
			note, err := store.Create(ctx, cmd.Args().Get(0), cmd.Args().Get(1), tags)
			if err != nil {
				return err
			}
			fmt.Printf("Note created with ID: %s\n", note.ID)
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List notes, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tag", Usage: "Filter notes by tag"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			entries, err := store.List(ctx, cmd.String("tag"))
			if err != nil {
				return err
			}
			fmt.Print(formatEntries(entries))
			return nil
		},
	}
}

func viewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "View a note",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().Get(0)
			if id == "" {
				return fmt.Errorf("view: id argument is required")
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			note, err := store.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Print(formatNote(note))
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a note; omitted flags leave fields unchanged",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "New title for the note"},
			&cli.StringFlag{Name: "content", Usage: "New content for the note"},
			&cli.StringFlag{Name: "tags", Usage: "New comma-separated list of tags (empty clears)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().Get(0)
			if id == "" {
				return fmt.Errorf("update: id argument is required")
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			var p notestore.UpdateParams
			if cmd.IsSet("title") {
				v := cmd.String("title")
				p.Title = &v
			}
			if cmd.IsSet("content") {
				v := cmd.String("content")
				p.Content = &v
			}
			if cmd.IsSet("tags") {
				tags := parseTags(cmd.String("tags"))
				p.Tags = &tags
			}
			note, err := store.Update(ctx, id, p)
			if err != nil {
				return err
			}
			fmt.Printf("Note %s updated successfully.\n", note.ID)
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a note",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().Get(0)
			if id == "" {
				return fmt.Errorf("delete: id argument is required")
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			if err := store.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Note %s deleted successfully.\n", id)
			return nil
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search notes by title and content",
		ArgsUsage: "<query>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			query := cmd.Args().Get(0)
			if query == "" {
				return fmt.Errorf("search: query argument is required")
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			results, err := store.Search(ctx, query)
			if err != nil {
				return err
			}
			fmt.Print(formatResults(query, results))
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the REST API server over the note store",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
				return fmt.Errorf("app run error: %w", err)
			}
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdin/stdout",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			return mcpserver.New(store).ServeStdio()
		},
	}
}
