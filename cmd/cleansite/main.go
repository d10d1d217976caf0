// Command cleansite serves the site's content API.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/cleansite/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
