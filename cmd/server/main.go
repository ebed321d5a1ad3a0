package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mealmux/mealmux/server"
	"github.com/mealmux/mealmux/server/api"
	"github.com/mealmux/mealmux/utils"
	"github.com/mealmux/mealmux/utils/dotenv"
	. "github.com/mealmux/mealmux/utils/log"
)

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	db, err := utils.GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect to database: ", err)
	}
	utils.DatabaseSetupAndMigration(db)

	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())

	server.RegisterRoutes(router, api.NewAPI(db, utils.GetRedisClient()), db)

	Log.Info("api server starts up")
	router.Run(":8080")
}
