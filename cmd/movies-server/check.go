package main

import (
	"context"
	"fmt"
	"io"

	"movies-api/internal/movies"
)

// runCheckSeed прогоняет каждую запись seed-файла через полную валидацию.
// Сервер записи при загрузке не проверяет, так что это отдельная команда.
func runCheckSeed(ctx context.Context, out io.Writer, file string) error {
	records, err := movies.NewMovieStore(file).LoadRaw(ctx)
	if err != nil {
		return err
	}

	bad := 0
	for i, rec := range records {
		result := movies.ValidateMovie(rec)
		if result.OK() {
			continue
		}
		bad++
		for _, v := range result.Errors {
			fmt.Fprintf(out, "record #%d: %s: %s\n", i, v.Field, v.Message)
		}
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d records in %s are invalid", bad, len(records), file)
	}
	fmt.Fprintf(out, "%s: %d records ok\n", file, len(records))
	return nil
}
