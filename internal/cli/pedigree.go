package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/birdo/internal/document"
	"github.com/mamadbah2/birdo/internal/lineage"
)

type pedigreeOpts struct {
	input      string
	bird       string
	output     string
	background string
}

func newPedigreeCmd(a *app) *cobra.Command {
	opts := &pedigreeOpts{}
	cmd := &cobra.Command{
		Use:   "pedigree",
		Short: "Resolve and render the pedigree of a bird",
	}
	cmd.PersistentFlags().StringVarP(&opts.input, "input", "i", "", "registry export (JSON)")
	cmd.PersistentFlags().StringVarP(&opts.bird, "bird", "b", "", "bird id or ring number")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout or the document name)")
	_ = cmd.MarkPersistentFlagRequired("input")
	_ = cmd.MarkPersistentFlagRequired("bird")

	tree := &cobra.Command{
		Use:   "tree",
		Short: "Print the 15 pedigree slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := loadTree(opts, a.log)
			if err != nil {
				return err
			}
			if opts.output != "" {
				data, err := json.MarshalIndent(t, "", "  ")
				if err != nil {
					return err
				}
				return os.WriteFile(opts.output, append(data, '\n'), 0o644)
			}
			return printTree(cmd.OutOrStdout(), t)
		},
	}

	pdf := &cobra.Command{
		Use:   "pdf",
		Short: "Render the printable pedigree card",
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, t, err := loadTree(opts, a.log)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			err = document.RenderPedigreePDF(&buf, t, document.LetterheadFrom(ex.Profile), document.PDFOptions{
				Background:  opts.background,
				GeneratedAt: time.Now(),
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd, opts.output, document.Filename(t.Subject), buf.Bytes(), a.log)
		},
	}
	pdf.Flags().StringVar(&opts.background, "bg", "#FFFFFF", "card background colour (#RRGGBB)")

	svg := &cobra.Command{
		Use:   "svg",
		Short: "Render the pedigree diagram with graphviz",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := loadTree(opts, a.log)
			if err != nil {
				return err
			}
			data, err := document.RenderTreeSVG(cmd.Context(), t)
			if err != nil {
				return err
			}
			return writeOutput(cmd, opts.output, "", data, a.log)
		},
	}

	dot := &cobra.Command{
		Use:   "dot",
		Short: "Print the pedigree as a Graphviz DOT graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := loadTree(opts, a.log)
			if err != nil {
				return err
			}
			return writeOutput(cmd, opts.output, "", []byte(document.TreeDOT(t)), a.log)
		},
	}

	cmd.AddCommand(tree, pdf, svg, dot)
	return cmd
}

func loadTree(opts *pedigreeOpts, log *zap.Logger) (export, lineage.Tree, error) {
	ex, err := readExport(opts.input)
	if err != nil {
		return export{}, lineage.Tree{}, err
	}
	t, err := ex.tree(opts.bird)
	if err != nil {
		return export{}, lineage.Tree{}, err
	}
	log.Debug("pedigree resolved",
		zap.String("bird_id", t.Subject.ID),
		zap.Int("registry", len(ex.Birds)),
		zap.Int("known", t.Known()))
	return ex, t, nil
}

// writeOutput writes to path, to fallback when path is empty, or to stdout
// when both are empty.
func writeOutput(cmd *cobra.Command, path, fallback string, data []byte, log *zap.Logger) error {
	if path == "" {
		path = fallback
	}
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info("document written", zap.String("path", path), zap.Int("bytes", len(data)))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func printTree(w io.Writer, t lineage.Tree) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tGEN\tROLE\tSLOT")
	for _, s := range t.Slots {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", s.Position, s.Generation, s.Role, s.Label())
	}
	return tw.Flush()
}
