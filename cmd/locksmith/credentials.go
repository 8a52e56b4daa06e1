package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/benaskins/locksmith/internal/api"
	"github.com/benaskins/locksmith/internal/clip"
	"github.com/benaskins/locksmith/internal/credential"
)

// clipboard is swapped for clip.Memory in tests.
var clipboard clip.Clipboard = clip.System{}

var addCmd = &cobra.Command{
	Use:   "add <website> <username>",
	Short: "Save a credential",
	Long: "Save a credential. The password is read from the terminal without echo, " +
		"from stdin when piped, or generated with --generate.",
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved credentials, most recent first",
	RunE:    runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one credential",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Remove a credential",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var copyCmd = &cobra.Command{
	Use:   "copy <id>",
	Short: "Copy a credential field to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runCopy,
}

func init() {
	addCmd.Flags().BoolP("generate", "g", false, "generate the password instead of prompting")
	addGeneratorFlags(addCmd)
	listCmd.Flags().Bool("reveal", false, "show passwords")
	showCmd.Flags().Bool("reveal", false, "show the password")
	copyCmd.Flags().String("field", "password", "field to copy: password, username or website")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(copyCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	v, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer v.close()

	var password string
	if gen, _ := cmd.Flags().GetBool("generate"); gen {
		length, numbers, symbols := generatorOptions(cmd)
		password, err = newGenerator().Generate(length, numbers, symbols)
		if err != nil {
			return err
		}
	} else {
		password, err = readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	rec, err := v.store.Add(args[0], args[1], password)
	if err != nil {
		if errors.Is(err, credential.ErrPersistence) {
			return fmt.Errorf("credential not saved: %w", err)
		}
		return err
	}

	if jsonOut {
		return printJSON(cmd.OutOrStdout(), api.NewCredentialResponse(rec, false))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Password for %s saved (id %d)\n", rec.Website, rec.ID)
	return nil
}

// readPassword prompts without echo on a terminal and otherwise reads one
// line from in.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runList(cmd *cobra.Command, args []string) error {
	v, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer v.close()

	reveal, _ := cmd.Flags().GetBool("reveal")
	records := v.store.List()
	out := cmd.OutOrStdout()

	if jsonOut {
		resp := make([]api.CredentialResponse, 0, len(records))
		for _, r := range records {
			resp = append(resp, api.NewCredentialResponse(r, reveal))
		}
		return printJSON(out, resp)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No passwords saved yet")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWEBSITE\tUSERNAME\tPASSWORD\tCREATED")
	for _, r := range records {
		pw := api.Mask
		if reveal {
			pw = r.Password
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Website, r.Username, pw, formatCreated(r.CreatedAt))
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	v, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer v.close()

	rec, ok := v.store.Find(id)
	if !ok {
		return &credential.NotFoundError{ID: id}
	}

	reveal, _ := cmd.Flags().GetBool("reveal")
	resp := api.NewCredentialResponse(rec, reveal)
	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, resp)
	}
	fmt.Fprintf(out, "ID:        %d\n", resp.ID)
	fmt.Fprintf(out, "Website:   %s\n", resp.Website)
	fmt.Fprintf(out, "Username:  %s\n", resp.Username)
	fmt.Fprintf(out, "Password:  %s\n", resp.Password)
	fmt.Fprintf(out, "Created:   %s\n", formatCreated(resp.CreatedAt))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	v, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer v.close()

	rec, err := v.store.Remove(id)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(cmd.OutOrStdout(), api.NewCredentialResponse(rec, false))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Password for %s deleted\n", rec.Website)
	return nil
}

func runCopy(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("field")
	field, err := credential.ParseField(name)
	if err != nil {
		return err
	}
	v, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer v.close()

	value, err := v.store.Field(id, field)
	if err != nil {
		return err
	}
	if err := clipboard.Copy(value); err != nil {
		return err
	}
	label := string(field)
	fmt.Fprintf(cmd.OutOrStdout(), "%s copied to clipboard\n", strings.ToUpper(label[:1])+label[1:])
	return nil
}
