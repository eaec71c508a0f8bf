/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/wordpicker/internal/app"
	"github.com/eslsoft/wordpicker/internal/entity"
	"github.com/eslsoft/wordpicker/internal/repository"
	"github.com/eslsoft/wordpicker/internal/usecase"
)

const (
	listPageKey     = "list.page"
	listPageSizeKey = "list.page_size"
	listFilterKey   = "list.filter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show collected words, most recent first",
	Example: `  wordpicker list --page 2
  wordpicker list --filter "text.startsWith('on ')"
  wordpicker list --filter "timestamp >= timestamp('2025-01-01T00:00:00Z')"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		container, cleanup, err := app.Initialize()
		if err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
		defer cleanup()

		page := viper.GetInt(listPageKey)
		pageSize := viper.GetInt(listPageSizeKey)
		if pageSize <= 0 {
			pageSize = container.Config.Store.PageSize
		}
		filter := strings.TrimSpace(viper.GetString(listFilterKey))

		var (
			records []entity.WordRecord
			total   int64
		)
		if filter == "" {
			if records, err = container.Reader.Page(ctx, page, pageSize); err != nil {
				return err
			}
			if total, err = container.Store.Count(ctx); err != nil {
				return err
			}
		} else {
			pagination, perr := listPagination(page, pageSize)
			if perr != nil {
				return perr
			}
			query := &repository.ListWordRecordQuery{
				Pagination: pagination,
				Filter:     repository.Filter{Filter: filter},
			}
			if records, total, err = container.Reader.Search(ctx, query); err != nil {
				return err
			}
		}

		if total == 0 {
			if filter != "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No words match the filter.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No words saved yet. Go copy some English text!")
			}
			return nil
		}
		out := cmd.OutOrStdout()
		for _, rec := range records {
			fmt.Fprintf(out, "%s  %s\n", rec.Timestamp.Local().Format("2006-01-02 15:04:05"), rec.Text)
		}
		fmt.Fprintf(out, "Page %d of %d. Total: %d items.\n", page, usecase.PageCount(total, pageSize), total)
		return nil
	},
}

func listPagination(page, pageSize int) (repository.Pagination, error) {
	if page > math.MaxInt32 || page < math.MinInt32 {
		return repository.Pagination{}, fmt.Errorf("page %d is out of range", page)
	}
	if pageSize > math.MaxInt32 || pageSize < math.MinInt32 {
		return repository.Pagination{}, fmt.Errorf("page size %d is out of range", pageSize)
	}
	return repository.Pagination{PageNo: int32(page), PageSize: int32(pageSize)}, nil
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntP("page", "p", 1, "page number, starting at 1")
	listCmd.Flags().Int("page-size", 0, "words per page (default store.page_size)")
	listCmd.Flags().String("filter", "", "CEL filter over text and timestamp")

	bindFlagToViper(listPageKey, listCmd.Flags().Lookup("page"))
	bindFlagToViper(listPageSizeKey, listCmd.Flags().Lookup("page-size"))
	bindFlagToViper(listFilterKey, listCmd.Flags().Lookup("filter"))
}
