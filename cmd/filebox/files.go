package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/filebox/filebox/internal/view"
	"github.com/filebox/filebox/pkg/models"
)

var (
	flagCategory string
	flagSort     string
	flagSearch   string
	flagFolder   string
	flagOutDir   string
	flagToFolder string
	flagPerm     string
	flagYes      bool
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List files",
	Long: `Lists your files and the ones shared with you.

Categories: all, images, documents, videos, audio, trash.`,
	RunE: runLs,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <path>...",
	Short: "Upload files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUpload,
}

var downloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <name>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runMkdir,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Move a file to trash",
	Args:  cobra.ExactArgs(1),
	RunE:  fileAction(func(a *app, c *cobra.Command, id int64) error {
		return a.ctrl.Delete(c.Context(), id)
	}),
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore a file from trash",
	Args:  cobra.ExactArgs(1),
	RunE: fileAction(func(a *app, c *cobra.Command, id int64) error {
		return a.ctrl.Restore(c.Context(), id)
	}),
}

var purgeCmd = &cobra.Command{
	Use:   "purge <id>",
	Short: "Permanently delete a trashed file",
	Long:  "Permanently deletes a trashed file. This cannot be undone; --yes skips the prompt.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPurge,
}

var shareCmd = &cobra.Command{
	Use:   "share <folder-id> <email>",
	Short: "Share a folder with another user by email",
	Args:  cobra.ExactArgs(2),
	RunE:  runShare,
}

func init() {
	lsCmd.Flags().StringVarP(&flagCategory, "category", "c", "all", "category filter")
	lsCmd.Flags().StringVarP(&flagSort, "sort", "s", "name", "sort key: name, date, size, type")
	lsCmd.Flags().StringVar(&flagSearch, "search", "", "substring filter on file names")
	lsCmd.Flags().StringVar(&flagFolder, "folder", "", "show the contents of a folder (by name)")

	uploadCmd.Flags().StringVar(&flagToFolder, "folder", "", "upload into a folder (by name)")
	downloadCmd.Flags().StringVarP(&flagOutDir, "output", "o", "", "target directory (default from config, else the current directory)")
	shareCmd.Flags().StringVar(&flagPerm, "permission", "ALL", "permission level: VIEW, DOWNLOAD, EDIT, ALL")
	purgeCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "skip the confirmation prompt")
}

// fileAction adapts a single-id controller call into a cobra handler.
func fileAction(fn func(*app, *cobra.Command, int64) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		if err := a.signIn(cmd.Context()); err != nil {
			return err
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return fn(a, cmd, id)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid file id %q", s)
	}
	return id, nil
}

// enterFolder resolves a folder by name in the current working set and
// opens it.
func enterFolder(a *app, cmd *cobra.Command, name string) error {
	if err := a.ctrl.Refresh(cmd.Context()); err != nil {
		return err
	}
	for _, f := range a.ctrl.Visible() {
		if f.IsFolder() && f.Name == name {
			return a.ctrl.OpenFolder(f.ID)
		}
	}
	return fmt.Errorf("no folder named %q", name)
}

func runLs(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.signIn(cmd.Context()); err != nil {
		return err
	}

	category := models.ParseCategory(flagCategory)
	a.ctrl.SetSort(view.ParseSortKey(flagSort))
	a.ctrl.SetSearch(flagSearch)
	if err := a.ctrl.SetCategory(cmd.Context(), category); err != nil {
		return err
	}
	if flagFolder != "" {
		if category == models.CategoryTrash {
			return fmt.Errorf("the trash has no folder view")
		}
		if err := enterFolder(a, cmd, flagFolder); err != nil {
			return err
		}
	}

	files := a.ctrl.Visible()
	if len(files) == 0 {
		fmt.Println("nothing here")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tUPLOADED\tTYPE\tOWNER")
	for _, f := range files {
		name := f.Name
		if f.IsFolder() {
			name += "/"
		}
		size := "-"
		if !f.IsFolder() {
			size = humanize.Bytes(uint64(f.Size))
		}
		owner := ""
		if f.Shared {
			owner = f.SharedBy
			if owner == "" {
				owner = f.OwnerUsername
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, name, size, humanize.Time(f.UploadedAt), f.Type, owner)
	}
	return w.Flush()
}

func runUpload(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.signIn(cmd.Context()); err != nil {
		return err
	}
	if flagToFolder != "" {
		if err := enterFolder(a, cmd, flagToFolder); err != nil {
			return err
		}
	}

	err = a.ctrl.UploadPaths(cmd.Context(), args, func(loaded, total int64) {
		if total <= 0 {
			return
		}
		fmt.Printf("\r%s / %s (%d%%)", humanize.Bytes(uint64(loaded)), humanize.Bytes(uint64(total)),
			loaded*100/total)
	})
	fmt.Println()
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %d file(s).\n", len(args))
	return nil
}

func runDownload(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.signIn(cmd.Context()); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	dir := flagOutDir
	if dir == "" {
		dir = a.cfg.Downloads.Dir
	}
	if dir == "" {
		dir = "."
	}

	path, err := a.ctrl.Download(cmd.Context(), id, dir)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runMkdir(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.signIn(cmd.Context()); err != nil {
		return err
	}

	folder, err := a.ctrl.CreateFolder(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Created folder %q (id %d).\n", folder.Name, folder.ID)
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.signIn(cmd.Context()); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if !flagYes {
		fmt.Printf("Permanently delete file %d? This cannot be undone. [y/N]: ", id)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}
	return a.ctrl.Purge(cmd.Context(), id)
}

func runShare(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.signIn(cmd.Context()); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	permission, ok := models.ParsePermission(flagPerm)
	if !ok {
		return fmt.Errorf("unknown permission %q", flagPerm)
	}

	if err := a.ctrl.Refresh(cmd.Context()); err != nil {
		return err
	}
	var folder *models.FileRecord
	for _, f := range a.ctrl.Visible() {
		if f.ID == id {
			record := f
			folder = &record
			break
		}
	}
	if folder == nil {
		return fmt.Errorf("no folder with id %d", id)
	}

	if err := a.ctrl.ShareFolder(cmd.Context(), folder, args[1], permission); err != nil {
		return err
	}
	fmt.Printf("Shared %q with %s (%s).\n", folder.Name, args[1], permission)
	return nil
}
