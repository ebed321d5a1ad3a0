// Bulk-loads the ingredient catalog from a two-column CSV file
// (name,measurement_unit). Rows that collide with an existing
// (name, unit) pair are skipped, so the import is safe to re-run.
package main

import (
	"encoding/csv"
	"flag"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mealmux/mealmux/model"
	"github.com/mealmux/mealmux/utils"
	"github.com/mealmux/mealmux/utils/dotenv"
	. "github.com/mealmux/mealmux/utils/log"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

func main() {
	path := flag.String("file", "data/ingredients.csv", "path to the ingredients CSV file")
	flag.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	file, err := os.Open(*path)
	if err != nil {
		Log.Fatal("cannot open ingredients file: ", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var ingredients []model.Ingredient
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			Log.Fatal("cannot parse ingredients file: ", err)
		}
		if len(row) < 2 {
			continue
		}
		ingredients = append(ingredients, model.Ingredient{
			Id:              uuid.New().String(),
			Name:            row[0],
			MeasurementUnit: row[1],
		})
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(ingredients, insertBatchSize)
	if result.Error != nil {
		Log.Fatal("ingredient import failed: ", result.Error)
	}

	Log.Info("imported ingredients: ", result.RowsAffected, " of ", len(ingredients))
}
