package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду клиента
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "reset-request":
		return c.runResetRequest(ctx, args)
	case "reset-confirm":
		return c.runResetConfirm(ctx)
	case "list":
		return c.runList(ctx)
	case "get":
		return c.runGet(ctx, args)
	case "save":
		return c.runSave(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "share":
		return c.runShare(ctx, args)
	case "shared":
		return c.runShared(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}
