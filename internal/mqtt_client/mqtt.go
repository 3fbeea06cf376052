package mqtt_client

import (
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/milleralan1/sales-prediction-api/config"
)

// InitClient подключается к брокеру и подписывает обработчик наблюдений
// на топик продаж
func InitClient(cfg config.MQTTConfig, handler mqtt.MessageHandler) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(fmt.Sprintf("%s-%d", cfg.ClientID, time.Now().Unix()))
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)

	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(cfg.Topic, byte(cfg.QoS), handler)
		token.Wait()
		if token.Error() != nil {
			slog.Error("Ошибка подписки на топик", "topic", cfg.Topic, "error", token.Error())
			return
		}
		slog.Info("Подписан на топик наблюдений", "topic", cfg.Topic)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		slog.Warn("Соединение с MQTT потеряно", "error", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return client, nil
}
