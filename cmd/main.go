package main

import (
	"github.com/skyquest/booking/internal/app"
	"github.com/skyquest/booking/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
