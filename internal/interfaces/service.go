package interfaces

import (
	"fmt"

	appconfig "github.com/novacoinotc/claudewallet/internal/app-config"
	http_interface "github.com/novacoinotc/claudewallet/internal/interfaces/http"
)

// Service interface defines the methods that every kind of interface, whether
// REST, gRPC, or whatever must be compliant with.
type Service interface {
	Start() error
	Stop()
}

type ServiceManager struct {
	Service
}

func NewHTTPServiceManager(
	config http_interface.ServiceConfig, appConfig *appconfig.AppConfig,
) (*ServiceManager, error) {
	svc, err := http_interface.NewService(config, appConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize http service: %s", err)
	}
	return &ServiceManager{svc}, nil
}
