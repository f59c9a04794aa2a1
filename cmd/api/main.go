package main

import (
	"go.uber.org/fx"

	"github.com/orderdesk/orderdesk/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
