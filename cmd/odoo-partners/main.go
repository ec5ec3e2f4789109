package main

import (
	"odoo-partners/cmd/odoo-partners/commands"
	"odoo-partners/pkg/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
