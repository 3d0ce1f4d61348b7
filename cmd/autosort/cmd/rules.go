package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brianly1003/autosort/internal/domain/rules"
)

var (
	ruleExtensions []string
	ruleCategory   string
	ruleTarget     string
)

// rulesCmd manages classification rules.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List and edit classification rules",
	Long: `List and edit the ordered classification rules.

The first rule listing a file's extension decides its destination. A
rule without a target folder sends files to
<default_target_folder>/<category>.

A running daemon picks up rule changes automatically.

Examples:
  autosort rules
  autosort rules add --ext .epub,.mobi --category Books
  autosort rules add --ext .iso --target ~/Images
  autosort rules update 2 --ext .zip,.rar --category Archives
  autosort rules remove 2`,
	RunE: runRulesList,
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a rule",
	Args:  cobra.NoArgs,
	RunE:  runRulesAdd,
}

var rulesUpdateCmd = &cobra.Command{
	Use:   "update <index>",
	Short: "Replace the rule at index",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesUpdate,
}

var rulesRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove the rule at index",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesRemove,
}

func init() {
	rulesCmd.AddCommand(rulesAddCmd)
	rulesCmd.AddCommand(rulesUpdateCmd)
	rulesCmd.AddCommand(rulesRemoveCmd)

	for _, c := range []*cobra.Command{rulesAddCmd, rulesUpdateCmd} {
		c.Flags().StringSliceVar(&ruleExtensions, "ext", nil, "comma-separated extensions, e.g. .pdf,.txt")
		c.Flags().StringVar(&ruleCategory, "category", "", "category name (subfolder of default_target_folder)")
		c.Flags().StringVar(&ruleTarget, "target", "", "explicit target folder")
		_ = c.MarkFlagRequired("ext")
	}
}

func runRulesList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	rs := store.Snapshot().RuleSet()

	def := rs.DefaultTargetFolder()
	if def == "" {
		def = "(not set)"
	}
	fmt.Printf("Default target folder: %s\n\n", def)

	for i, r := range rs.Rules() {
		fmt.Printf("%3d  %-12s %s\n", i, ruleDestination(r), strings.Join(r.Extensions, " "))
	}
	return nil
}

func ruleDestination(r rules.Rule) string {
	if r.TargetFolder != "" {
		return r.TargetFolder
	}
	return r.Category
}

func ruleFromFlags() rules.Rule {
	return rules.Rule{
		Extensions:   ruleExtensions,
		Category:     ruleCategory,
		TargetFolder: ruleTarget,
	}
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.AddRule(ruleFromFlags()); err != nil {
		return err
	}
	fmt.Printf("Added rule %d\n", store.Snapshot().RuleSet().Len()-1)
	return nil
}

func runRulesUpdate(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.UpdateRule(index, ruleFromFlags()); err != nil {
		return err
	}
	fmt.Printf("Updated rule %d\n", index)
	return nil
}

func runRulesRemove(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[0])
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.DeleteRule(index); err != nil {
		return err
	}
	fmt.Printf("Removed rule %d\n", index)
	return nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid rule index %q", s)
	}
	return i, nil
}
