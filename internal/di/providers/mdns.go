package providers

import (
	"strconv"

	"github.com/samber/do/v2"

	"github.com/acervoapp/acervo-server/internal/config"
	"github.com/acervoapp/acervo-server/internal/logger"
	"github.com/acervoapp/acervo-server/internal/mdns"
)

// MDNSHandle wraps the mDNS advertiser with shutdown capability.
type MDNSHandle struct {
	Service *mdns.Service
}

// Shutdown implements do.Shutdownable.
func (h *MDNSHandle) Shutdown() error {
	h.Service.Stop()
	return nil
}

// ProvideMDNS starts LAN advertisement of the server. Failure to advertise
// is not fatal: the server is still reachable by address, clients just lose
// auto-discovery.
func ProvideMDNS(i do.Injector) (*MDNSHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := mdns.NewService(log.Logger)

	port, err := strconv.Atoi(cfg.Server.Port)
	if err != nil {
		log.Warn("Invalid port for mDNS advertisement", "port", cfg.Server.Port)
		return &MDNSHandle{Service: svc}, nil
	}

	if err := svc.Start("Acervo", port); err != nil {
		log.Warn("mDNS advertisement unavailable", "error", err)
	}

	return &MDNSHandle{Service: svc}, nil
}
