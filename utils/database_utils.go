// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/mealmux/mealmux/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testDBNameCharLength = 8
)

// GetDBConnection get a connection to the database specified by env
func GetDBConnection() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))
	return getDB(postgres.Open(dsn))
}

func getDB(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Uniqueness violations must come back as gorm.ErrDuplicatedKey:
		// the relation registry and the short-link generator treat them as
		// expected outcomes, not as opaque driver errors.
		TranslateError: true,
	})
}

// DatabaseSetupAndMigration migrates every entity this service owns. The
// recipe_tags join table is implicit, everything else is declared in model.
func DatabaseSetupAndMigration(db *gorm.DB) {
	err := db.AutoMigrate(
		&model.User{},
		&model.AuthToken{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
		&model.RecipeIngredient{},
		&model.Favorite{},
		&model.ShoppingCartItem{},
		&model.Follower{},
	)
	if err != nil {
		panic("failed to migrate database: " + err.Error())
	}
}

// CreateTestDB opens a private in-memory SQLite database for a single test
// and runs the full migration against it. The database lives as long as the
// test keeps a connection open; cleanup closes it and drops everything with
// it, so tests never need to clean up rows themselves.
func CreateTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", RandomAlphabetString(testDBNameCharLength))
	db, err := getDB(sqlite.Open(dsn))
	if err != nil {
		log.Fatalln("cannot open test DB: ", err)
	}
	DatabaseSetupAndMigration(db)
	t.Cleanup(func() {
		conn, _ := db.DB()
		conn.Close()
	})
	return db
}
