package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sortbox/internal/category"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the category rules in evaluation order",
		Long:  "Show the category rules in evaluation order. The first matching rule wins.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			resolver, err := category.NewResolver(cfg.CategoryRules())
			if err != nil {
				return err
			}
			rules := resolver.Rules()
			if jsonOut {
				return writeJSON(cmd, rulesJSON(rules))
			}

			title := cases.Title(language.Und)
			rows := make([][]string, 0, len(rules))
			for i, rule := range rules {
				folder := rule.Category
				if rule.Subcategory != "" {
					folder += "/" + rule.Subcategory
				}
				label := title.String(rule.Category)
				if rule.Subcategory != "" {
					label += " (" + title.String(rule.Subcategory) + ")"
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					label,
					folder,
					rule.Kind.String(),
					strings.Join(rule.Tokens, " "),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Category", "Folder", "Match", "Tokens"},
				rows,
				[]columnAlignment{alignRight},
			))
			fmt.Fprintln(out, "Unmatched files go to others; name matches of existing files go to duplicates.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the rules as JSON")
	return cmd
}

type ruleView struct {
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Match       string   `json:"match"`
	Tokens      []string `json:"tokens"`
}

func rulesJSON(rules []category.Rule) []ruleView {
	views := make([]ruleView, 0, len(rules))
	for _, rule := range rules {
		views = append(views, ruleView{
			Category:    rule.Category,
			Subcategory: rule.Subcategory,
			Match:       rule.Kind.String(),
			Tokens:      rule.Tokens,
		})
	}
	return views
}
