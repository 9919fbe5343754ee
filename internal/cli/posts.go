package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/debemdeboas/folio/internal/model"
	"github.com/debemdeboas/folio/internal/repository"
	"github.com/spf13/cobra"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fe8019"))
	featuredStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fabd2f"))
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a89984"))
	tagStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#83a598"))
	slugStyle     = lipgloss.NewStyle().Faint(true)
)

type postsOptions struct {
	tag      string
	featured bool
	tags     bool
}

func PostsCmd() *cobra.Command {
	opts := &postsOptions{}

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List the posts in the content repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.AppConfig, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			return listPosts(cmd.Context(), cmd.OutOrStdout(), a.repo, opts)
		},
	}

	cmd.Flags().StringVar(&opts.tag, "tag", "", "only posts carrying this tag (case insensitive)")
	cmd.Flags().BoolVar(&opts.featured, "featured", false, "only featured posts")
	cmd.Flags().BoolVar(&opts.tags, "tags", false, "list the tags instead of the posts")
	return cmd
}

func listPosts(ctx context.Context, w io.Writer, repo repository.PostRepository, opts *postsOptions) error {
	if opts.tags {
		for _, tag := range repo.ListTags(ctx) {
			fmt.Fprintln(w, tagStyle.Render(tag))
		}
		return nil
	}

	var posts []model.PostMetadata
	switch {
	case opts.tag != "":
		posts = repo.ListPostsByTag(ctx, opts.tag)
	case opts.featured:
		posts = repo.ListFeaturedPosts(ctx)
	default:
		posts = repo.ListPostsMetadata(ctx)
	}
	if opts.tag != "" && opts.featured {
		kept := posts[:0]
		for _, p := range posts {
			if p.Featured {
				kept = append(kept, p)
			}
		}
		posts = kept
	}

	if len(posts) == 0 {
		fmt.Fprintln(w, metaStyle.Render("No posts found."))
		return nil
	}

	for _, p := range posts {
		fmt.Fprintln(w, formatPost(p))
	}
	return nil
}

func formatPost(p model.PostMetadata) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.Title))
	if p.Featured {
		b.WriteString(" " + featuredStyle.Render("★"))
	}
	b.WriteString(" " + slugStyle.Render("("+p.Slug+")"))
	b.WriteString("\n  ")

	meta := []string{p.DisplayDate(), fmt.Sprintf("%d min read", p.ReadingTime)}
	if p.Author != "" {
		meta = append(meta, p.Author)
	}
	b.WriteString(metaStyle.Render(strings.Join(meta, " · ")))

	if len(p.Tags) > 0 {
		b.WriteString("\n  ")
		b.WriteString(tagStyle.Render("#" + strings.Join(p.Tags, " #")))
	}
	return b.String()
}
