// cmd/protannot/main.go
package main

import (
	"protannot/internal/app"
	"protannot/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
