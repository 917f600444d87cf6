// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file to the media store",
	Long: `Upload a file under the root folder. The image preset pins a width
limit and the default optimization pipeline; the document preset stores the
file as raw with no transformations. "-" reads the body from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	f := uploadCmd.Flags()
	f.String("folder", "", "Folder relative to the root folder")
	f.String("category", "", "Category hint: image, video, raw or auto")
	f.String("preset", "auto", "Upload preset: image, document or auto")
	f.String("public_id", "", "Identifier inside the folder (default: assigned by the store)")
	f.String("filename", "", "Filename reported to the store (default: base name of <file>)")
	f.StringSlice("tag", nil, "Tag to attach (repeatable)")
	f.StringArray("transform", nil, "Transformation directive as key=value pairs, e.g. width=640,crop=fill (repeatable)")
	f.String("upload.max_size", "", "Reject bodies larger than this, e.g. 25MB (overrides upload.max_size)")
	f.StringSlice("upload.allowed_types", nil, "Allowed MIME types, e.g. image/*,application/pdf (overrides upload.allowed_types)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	category, err := NewFlagLoader(cmd).Category("category")
	if err != nil {
		return err
	}
	raw, _ := cmd.Flags().GetStringArray("transform")
	transforms, err := parseDirectives(raw)
	if err != nil {
		return err
	}

	var body io.Reader
	filename, _ := cmd.Flags().GetString("filename")
	if args[0] == "-" {
		body = cmd.InOrStdin()
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		body = f
		if filename == "" {
			filename = filepath.Base(args[0])
		}
	}

	folder, _ := cmd.Flags().GetString("folder")
	publicID, _ := cmd.Flags().GetString("public_id")
	tags, _ := cmd.Flags().GetStringSlice("tag")
	opts := media.UploadOptions{
		Folder:          folder,
		Category:        category,
		Format:          strings.TrimPrefix(filepath.Ext(filename), "."),
		Transformations: transforms,
		Tags:            tags,
		PublicID:        publicID,
		Filename:        filename,
	}

	mgr, closer, err := openManager(ctx, cmd)
	if err != nil {
		return err
	}
	defer closer()

	preset, _ := cmd.Flags().GetString("preset")
	var desc *media.AssetDescriptor
	switch preset {
	case "image":
		desc, err = mgr.UploadImage(ctx, body, opts)
	case "document":
		desc, err = mgr.UploadDocument(ctx, body, opts)
	case "auto", "":
		desc, err = mgr.Upload(ctx, body, opts)
	default:
		return fmt.Errorf("unknown preset %q", preset)
	}
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(cmd.OutOrStdout(), desc)
	}
	printDescriptor(cmd.OutOrStdout(), desc)
	return nil
}

// parseDirectives turns "width=640,crop=fill" strings into directives, one
// per string. Integer values are kept as integers.
func parseDirectives(raw []string) ([]media.Directive, error) {
	var out []media.Directive
	for _, s := range raw {
		fields := make(map[string]any)
		for _, pair := range strings.Split(s, ",") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			k, v, ok := strings.Cut(pair, "=")
			k = strings.TrimSpace(k)
			if !ok || k == "" {
				return nil, fmt.Errorf("invalid transformation %q: expected key=value", pair)
			}
			v = strings.TrimSpace(v)
			if n, err := strconv.Atoi(v); err == nil {
				fields[k] = n
			} else {
				fields[k] = v
			}
		}
		if len(fields) > 0 {
			out = append(out, media.NewDirective(fields))
		}
	}
	return out, nil
}
