package discovery

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/consul/api"
)

type ConsulClient struct {
	client *api.Client
}

func NewConsulClient(address string) (*ConsulClient, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}
	return &ConsulClient{client: client}, nil
}

// ServiceID is the registration id for name on host:port.
func ServiceID(name, host string, port int) string {
	return name + "-" + host + "-" + strconv.Itoa(port)
}

// RegisterService registers the API with an HTTP check against /health.
func (c *ConsulClient) RegisterService(serviceID, serviceName, host string, port int) error {
	registration := &api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    serviceName,
		Address: host,
		Port:    port,
		Tags:    []string{"inventory", "http"},
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", host, port),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}
	if err := c.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("register %s: %w", serviceID, err)
	}
	return nil
}

func (c *ConsulClient) DeregisterService(serviceID string) error {
	if err := c.client.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("deregister %s: %w", serviceID, err)
	}
	return nil
}
