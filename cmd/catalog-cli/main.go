package main

import (
	"context"
	"glowpicked-backend/cmd/catalog-cli/commands"
	"glowpicked-backend/lib/serviceutil"
	"glowpicked-backend/lib/telemetry"
)

func main() {
	err := telemetry.SetupFromEnv(context.Background(), "catalog-cli")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer telemetry.Shutdown(context.Background())
	telemetry.InitSlog(true)

	commands.ExecuteContext(serviceutil.SignalContext())
}
