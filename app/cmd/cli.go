package cmd

import (
	"context"
	"log"
	"os"

	"github.com/AhmedZafar5533/marbo-go/app/configs"
	"github.com/AhmedZafar5533/marbo-go/app/store"
	"github.com/urfave/cli/v3"
)

func RunCli() {
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Create the cart cache table for the mysql store backend",
				Action: func(ctx context.Context, c *cli.Command) error {
					env := configs.LoadEnv()
					db, err := configs.OpenConnection(env)
					if err != nil {
						return err
					}
					if err := store.NewGormStore(db, env.CartProfile).AutoMigrate(); err != nil {
						return err
					}
					log.Println("migration complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session authentication and encryption keys for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					return configs.GenerateAndPrintSessionKeys()
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
