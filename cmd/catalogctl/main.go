package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"CourseBrowser/internal/catalog"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:  "catalogctl",
		Usage: "query a running course catalog service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "http://localhost:8082",
				Usage:   "catalog service base URL",
				EnvVars: []string{"CATALOG_URL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Second,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "courses",
				Usage: "list courses matching filters",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}},
					&cli.StringFlag{Name: "grade", Value: "all"},
					&cli.StringFlag{Name: "subject", Value: string(catalog.SubjectAll)},
					&cli.StringFlag{Name: "progress", Value: string(catalog.ProgressAll)},
				},
				Action: func(c *cli.Context) error {
					ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
					defer cancel()

					f := catalog.Filters{
						Query:    c.String("query"),
						Grade:    catalog.ParseGrade(c.String("grade")),
						Subject:  catalog.Subject(c.String("subject")),
						Progress: catalog.ProgressBucket(c.String("progress")),
					}
					list, err := catalog.NewClient(c.String("url")).Courses(ctx, f)
					if err != nil {
						return err
					}
					return printJSON(out, list)
				},
			},
			{
				Name:      "course",
				Usage:     "show one course",
				ArgsUsage: "<courseId>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("course id required", 2)
					}
					ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
					defer cancel()

					course, err := catalog.NewClient(c.String("url")).Course(ctx, c.Args().First())
					if err != nil {
						return err
					}
					return printJSON(out, course)
				},
			},
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
