package cli

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ralt/rpm-builder/internal/inspect"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/ralt/rpm-builder/internal/scanner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var keyring string

	cmd := &cobra.Command{
		Use:   "inspect RPM|DIR",
		Short: "Print the metadata of built RPMs",
		Long: `Reads an RPM and prints its name, version, relationships, files,
changelog and scripts. Given a directory, every RPM below it is inspected.
With --keyring the signatures are verified against the given public keys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], keyring, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&keyring, "keyring", "k", "", "Public key(s) to verify signatures with")

	return cmd
}

func runInspect(ctx context.Context, path, keyring string, out io.Writer) error {
	info, err := os.Stat(path)
	if err != nil {
		return models.NewError(models.ErrInspect, (*models.Context)(nil).Note("rpm", path), err)
	}
	if !info.IsDir() {
		return inspectFile(path, keyring, out)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	packages, err := scanner.NewFileSystemScanner().Scan(ctx, path)
	if err != nil {
		return models.NewError(models.ErrInspect, (*models.Context)(nil).Note("dir", path), err)
	}
	if len(packages) == 0 {
		logrus.Warnf("No packages found in %s", path)
		return nil
	}

	for i, p := range packages {
		if i > 0 {
			printf(out, "\n")
		}
		if err := inspectFile(p.Path, keyring, out); err != nil {
			return err
		}
	}
	return nil
}

func inspectFile(path, keyring string, out io.Writer) error {
	ctx := (*models.Context)(nil).Note("rpm", path)

	pkg, err := inspect.ParsePackage(path)
	if err != nil {
		return models.NewError(models.ErrInspect, ctx, err)
	}

	if keyring != "" {
		ctx = ctx.Note("keyring", keyring)
		keys, err := inspect.ReadKeyring(keyring)
		if err != nil {
			return models.NewError(models.ErrInspect, ctx, err)
		}
		sigs, err := inspect.VerifyFile(path, keys)
		if err != nil {
			return models.NewError(models.ErrInspect, ctx, err)
		}
		pkg.Signed = true
		pkg.Signatures = sigs
	}

	printPackage(out, pkg)
	return nil
}

func printPackage(out io.Writer, pkg *models.PackageInfo) {
	printf(out, "Name:       %s\n", pkg.Name)
	printf(out, "Version:    %s\n", pkg.Version)
	if pkg.Release != "" {
		printf(out, "Release:    %s\n", pkg.Release)
	}
	printf(out, "Arch:       %s\n", pkg.Architecture)
	printf(out, "License:    %s\n", pkg.License)
	printf(out, "Summary:    %s\n", pkg.Summary)
	if pkg.BuildTime != 0 {
		printf(out, "Build time: %s\n", time.Unix(pkg.BuildTime, 0).UTC().Format(time.RFC3339))
	}
	printf(out, "Size:       %d\n", pkg.Size)
	printf(out, "SHA256:     %s\n", pkg.SHA256Sum)

	printList(out, "Requires", pkg.Requires)
	printList(out, "Provides", pkg.Provides)
	printList(out, "Conflicts", pkg.Conflicts)
	printList(out, "Obsoletes", pkg.Obsoletes)
	printList(out, "Files", pkg.Files)

	if len(pkg.Changelog) > 0 {
		printf(out, "Changelog:\n")
		for _, c := range pkg.Changelog {
			when := time.Unix(int64(c.Time), 0).UTC().Format("2006-01-02")
			printf(out, "  * %s %s\n", when, c.Author)
			for _, line := range strings.Split(c.Text, "\n") {
				printf(out, "    %s\n", line)
			}
		}
	}

	hooks := make([]string, 0, len(pkg.Scripts))
	for hook := range pkg.Scripts {
		hooks = append(hooks, hook)
	}
	sort.Strings(hooks)
	for _, hook := range hooks {
		printf(out, "Script %s:\n", hook)
		for _, line := range strings.Split(strings.TrimRight(pkg.Scripts[hook], "\n"), "\n") {
			printf(out, "    %s\n", line)
		}
	}

	if pkg.Signed {
		printList(out, "Signatures", pkg.Signatures)
	}
}

func printList(out io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	printf(out, "%s:\n", label)
	for _, item := range items {
		printf(out, "  %s\n", item)
	}
}
