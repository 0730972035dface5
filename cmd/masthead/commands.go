package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/masthead/internal/database"
	"github.com/saltyorg/masthead/internal/fixture"
	"github.com/saltyorg/masthead/internal/models"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the authors, magazines and articles tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(func(db *database.DB) error {
				log.Info().Str("database", db.Path()).Msg("Schema ready")
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			})
		},
	}
}

func newAuthorCmd(opts *options) *cobra.Command {
	authorCmd := &cobra.Command{
		Use:   "author",
		Short: "Manage authors",
	}

	authorCmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME",
			Short: "Create an author and print its id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				author, err := models.NewAuthor(args[0])
				if err != nil {
					return err
				}
				return opts.withDB(func(db *database.DB) error {
					id, err := author.Create(db)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), id)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "articles ID",
			Short: "List the articles written by an author",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return opts.withDB(func(db *database.DB) error {
					author, err := models.FindAuthor(db, id)
					if err != nil {
						return err
					}
					articles, err := author.Articles(db)
					if err != nil {
						return err
					}
					return printArticles(cmd.OutOrStdout(), articles)
				})
			},
		},
		&cobra.Command{
			Use:   "magazines ID",
			Short: "List the magazines an author has written for",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return opts.withDB(func(db *database.DB) error {
					author, err := models.FindAuthor(db, id)
					if err != nil {
						return err
					}
					magazines, err := author.Magazines(db)
					if err != nil {
						return err
					}
					return printMagazines(cmd.OutOrStdout(), magazines)
				})
			},
		},
	)

	return authorCmd
}

func newMagazineCmd(opts *options) *cobra.Command {
	magazineCmd := &cobra.Command{
		Use:   "magazine",
		Short: "Manage magazines",
	}

	magazineCmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME CATEGORY",
			Short: "Create a magazine and print its id",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				magazine, err := models.NewMagazine(args[0], args[1])
				if err != nil {
					return err
				}
				return opts.withDB(func(db *database.DB) error {
					id, err := magazine.Save(db)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), id)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "titles ID",
			Short: "List the titles of a magazine's articles",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return opts.withDB(func(db *database.DB) error {
					magazine, err := models.FindMagazine(db, id)
					if err != nil {
						return err
					}
					titles, err := magazine.ArticleTitles(db)
					if err != nil {
						return err
					}
					for _, title := range titles {
						fmt.Fprintln(cmd.OutOrStdout(), title)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "contributors ID",
			Short: "List the distinct authors who wrote for a magazine",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				return opts.withDB(func(db *database.DB) error {
					magazine, err := models.FindMagazine(db, id)
					if err != nil {
						return err
					}
					authors, err := magazine.ContributingAuthors(db)
					if err != nil {
						return err
					}
					return printAuthors(cmd.OutOrStdout(), authors)
				})
			},
		},
	)

	return magazineCmd
}

func newArticleCmd(opts *options) *cobra.Command {
	articleCmd := &cobra.Command{
		Use:   "article",
		Short: "Manage articles",
	}

	var (
		title      string
		content    string
		authorID   int64
		magazineID int64
	)

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an article for an existing author and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDB(func(db *database.DB) error {
				author, err := models.FindAuthor(db, authorID)
				if err != nil {
					return err
				}
				article, err := models.NewArticle(title, content, author, magazineID)
				if err != nil {
					return err
				}
				id, err := article.Save(db)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "Article title")
	addCmd.Flags().StringVar(&content, "content", "", "Article content (required)")
	addCmd.Flags().Int64Var(&authorID, "author", 0, "Author id")
	addCmd.Flags().Int64Var(&magazineID, "magazine", 0, "Magazine id")
	_ = addCmd.MarkFlagRequired("author")
	_ = addCmd.MarkFlagRequired("magazine")

	articleCmd.AddCommand(addCmd)
	return articleCmd
}

func newImportCmd(opts *options) *cobra.Command {
	var report bool

	importCmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load authors, magazines and articles from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := fixture.LoadFile(args[0])
			if err != nil {
				return err
			}
			return opts.withDB(func(db *database.DB) error {
				res, err := f.Apply(db)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printIDs(out, "author", res.Authors)
				printIDs(out, "magazine", res.Magazines)
				fmt.Fprintf(out, "articles\t%d\n", len(res.ArticleIDs))

				if report {
					return printReport(out, db, res)
				}
				return nil
			})
		},
	}
	importCmd.Flags().BoolVar(&report, "report", false, "Print titles and contributors per magazine after importing")

	return importCmd
}

func newDBCmd(opts *options) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	dbCmd.AddCommand(
		&cobra.Command{
			Use:   "optimize",
			Short: "Refresh SQLite planner statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withDB(func(db *database.DB) error {
					return db.Optimize()
				})
			},
		},
		&cobra.Command{
			Use:   "vacuum",
			Short: "Rebuild the database file to reclaim space",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withDB(func(db *database.DB) error {
					return db.Vacuum()
				})
			},
		},
	)

	return dbCmd
}

func printIDs(out io.Writer, kind string, ids map[string]int64) {
	keys := make([]string, 0, len(ids))
	for k := range ids {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return ids[keys[i]] < ids[keys[j]] })
	for _, k := range keys {
		fmt.Fprintf(out, "%s\t%s\t%d\n", kind, k, ids[k])
	}
}

func printReport(out io.Writer, db database.Cursor, res *fixture.Result) error {
	ids := make([]int64, 0, len(res.Magazines))
	for _, id := range res.Magazines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		magazine, err := models.FindMagazine(db, id)
		if err != nil {
			return err
		}
		titles, err := magazine.ArticleTitles(db)
		if err != nil {
			return err
		}
		authors, err := magazine.ContributingAuthors(db)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%s (%s)\n", magazine.Name(), magazine.Category())
		for _, title := range titles {
			fmt.Fprintf(out, "  article\t%s\n", title)
		}
		for _, a := range authors {
			fmt.Fprintf(out, "  contributor\t%s\n", a.Name)
		}
	}
	return nil
}

func printArticles(out io.Writer, articles []models.ArticleRecord) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tMAGAZINE")
	for _, a := range articles {
		magazine := "-"
		if a.MagazineID != nil {
			magazine = strconv.FormatInt(*a.MagazineID, 10)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", a.ID, a.Title, magazine)
	}
	return w.Flush()
}

func printMagazines(out io.Writer, magazines []models.MagazineRecord) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY")
	for _, m := range magazines {
		fmt.Fprintf(w, "%d\t%s\t%s\n", m.ID, m.Name, m.Category)
	}
	return w.Flush()
}

func printAuthors(out io.Writer, authors []models.AuthorRecord) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME")
	for _, a := range authors {
		fmt.Fprintf(w, "%d\t%s\n", a.ID, a.Name)
	}
	return w.Flush()
}
