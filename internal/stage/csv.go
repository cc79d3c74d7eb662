package stage

import (
	"context"
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/jmoiron/sqlx"
	"golang.org/x/text/encoding/charmap"

	"github.com/cotahub/mdcota-etl/internal/logger"
)

// LoadGroupInfoCSV parses a delivered group-information file and appends its
// rows to the given staging table, unprocessed. The batch job then drains the
// table as usual, so file-delivered and API-delivered rows take the same
// path.
func LoadGroupInfoCSV(ctx context.Context, db *sqlx.DB, appLogger *logger.Logger, path, table string) (int, error) {
	const component = "CSVLoader"

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open staging file %s: %w", path, err)
	}
	defer file.Close()

	decoded := charmap.Windows1252.NewDecoder().Reader(file)
	df := dataframe.ReadCSV(decoded, dataframe.WithDelimiter(';'), dataframe.WithLazyQuotes(true))
	if df.Error() != nil {
		return 0, fmt.Errorf("parse staging file %s: %w", path, df.Error())
	}
	if df.Nrow() == 0 {
		appLogger.Warn(component, "Staging file is empty: path=%s", path)
		return 0, nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (
		group_code, group_deadline, current_assembly, info_date, asset_code, asset_desc,
		asset_value, asset_type, bid_value, assembly_date, vacancies, is_processed, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, false, NOW())`, table)

	inserted := 0
	for i := 0; i < df.Nrow(); i++ {
		if _, err := db.ExecContext(ctx, query,
			getCol(&df, "Grupo", i),
			getCol(&df, "Prazo", i),
			getCol(&df, "Assembleia Atual", i),
			getCol(&df, "Data Informacao", i),
			getCol(&df, "Codigo Bem", i),
			getCol(&df, "Descricao Bem", i),
			getCol(&df, "Valor Bem", i),
			getCol(&df, "Tipo Bem", i),
			getCol(&df, "Percentual Lance", i),
			getCol(&df, "Data Assembleia", i),
			getCol(&df, "Vagas", i),
		); err != nil {
			appLogger.Error(component, "Failed to stage file row: path=%s row=%d error=%v", path, i, err)
			continue
		}
		inserted++
	}

	appLogger.Info(component, "Staging file loaded: path=%s rows=%d staged=%d", path, df.Nrow(), inserted)
	return inserted, nil
}

func getCol(df *dataframe.DataFrame, col string, rowIdx int) string {
	for _, name := range df.Names() {
		if name == col {
			return df.Col(col).Elem(rowIdx).String()
		}
	}
	return ""
}
