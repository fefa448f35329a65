package infra

import (
	"errors"
	"path/filepath"

	"github.com/avast/retry-go"
	"github.com/fystack/storable/pkg/config"
	"github.com/fystack/storable/pkg/constant"
	"github.com/fystack/storable/pkg/logger"
	"github.com/nats-io/nats.go"
)

func GetNATSConnection(cfg *config.NATSConfig, environment string) (*nats.Conn, error) {
	var opts []nats.Option
	if environment == constant.EnvProduction {
		clientCert := filepath.Join(".", "certs", "client-cert.pem")
		clientKey := filepath.Join(".", "certs", "client-key.pem")
		caCert := filepath.Join(".", "certs", "rootCA.pem")
		opts = append(opts,
			nats.ClientCert(clientCert, clientKey),
			nats.RootCAs(caCert),
			nats.UserInfo(cfg.Username, cfg.Password),
		)
	}

	var conn *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			conn, err = nats.Connect(cfg.URL, opts...)
			return err
		},
		retry.Attempts(connectAttempts),
		retry.Delay(connectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("NATS not reachable, retrying", "attempt", n+1, "url", cfg.URL, "error", err.Error())
		}),
	)
	return conn, err
}

// GetKeyValueBucket binds to a JetStream key-value bucket, creating it when it
// does not exist yet.
func GetKeyValueBucket(conn *nats.Conn, bucket string) (nats.KeyValue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, err
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		logger.Info("Creating NATS key-value bucket", "bucket", bucket)
		return js.CreateKeyValue(&nats.KeyValueConfig{Bucket: bucket})
	}
	return kv, err
}
