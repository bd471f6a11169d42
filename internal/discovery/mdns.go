// Package discovery advertises the bridge's WebSocket endpoint over mDNS so
// frontends can find it on the LAN without configuration.
package discovery

import (
	"github.com/grandcat/zeroconf"
	"github.com/sirupsen/logrus"
)

const service = "_tuio-ws._tcp"

// Advertise registers the endpoint. The returned function shuts the
// advertisement down.
func Advertise(instance string, port int, log *logrus.Entry) (func(), error) {
	txt := []string{"proto=tuio", "transport=websocket"}
	server, err := zeroconf.Register(instance, service, "local.", port, txt, nil)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"service":  service,
		"instance": instance,
		"port":     port,
	}).Info("mdns advertisement up")
	return server.Shutdown, nil
}
