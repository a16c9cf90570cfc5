package stats

import (
	"fmt"
	"time"

	"github.com/Shopify/sarama"
	"github.com/cespare/xxhash"
	jump "github.com/dgryski/go-jump"
)

// Kafka is a Sink that publishes every record as a msgp encoded message.
// records are keyed by their tagged key, and a given key always goes to the same partition.
type Kafka struct {
	client        sarama.Client // only set if we created it
	producer      sarama.SyncProducer
	topic         string
	numPartitions int32

	// metric stats.kafka.published is how many records were published to kafka
	published *Meter32
	// metric stats.kafka.publish.duration is how long a publish to kafka takes, in microseconds
	publishDuration Aggregator
	// metric stats.kafka.message_size is the size of the published messages in bytes
	messageSize Aggregator
}

// KafkaConfig holds the settings needed to connect a Kafka sink
type KafkaConfig struct {
	Brokers     []string
	Topic       string
	Compression string
	Version     string
	Timeout     time.Duration
}

func GetCompression(codec string) (sarama.CompressionCodec, error) {
	switch codec {
	case "none":
		return sarama.CompressionNone, nil
	case "gzip":
		return sarama.CompressionGZIP, nil
	case "snappy":
		return sarama.CompressionSnappy, nil
	case "lz4":
		return sarama.CompressionLZ4, nil
	}
	return sarama.CompressionNone, fmt.Errorf("unknown compression codec %q", codec)
}

// NewKafkaFromConfig connects to the brokers and looks up the partition count of the topic
func NewKafkaFromConfig(cfg KafkaConfig) (*Kafka, error) {
	codec, err := GetCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}
	version, err := sarama.ParseKafkaVersion(cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid kafka version: %w", err)
	}

	config := sarama.NewConfig()
	config.ClientID = "metricagg"
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 10
	config.Producer.Compression = codec
	config.Producer.Return.Successes = true
	config.Producer.Partitioner = sarama.NewManualPartitioner
	config.Producer.Timeout = cfg.Timeout
	config.Version = version
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid kafka config: %w", err)
	}

	client, err := sarama.NewClient(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize kafka client: %w", err)
	}
	partitions, err := client.Partitions(cfg.Topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get partitions for topic %s: %w", cfg.Topic, err)
	}
	if len(partitions) == 0 {
		client.Close()
		return nil, fmt.Errorf("no partitions returned for topic %s", cfg.Topic)
	}
	producer, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize kafka producer: %w", err)
	}
	k := NewKafka(producer, cfg.Topic, int32(len(partitions)))
	k.client = client
	return k, nil
}

// NewKafka returns a Kafka sink publishing through the given producer.
// the producer must be configured with a manual partitioner.
func NewKafka(producer sarama.SyncProducer, topic string, numPartitions int32) *Kafka {
	return &Kafka{
		producer:        producer,
		topic:           topic,
		numPartitions:   numPartitions,
		published:       NewMeter32("stats.kafka.published"),
		publishDuration: NewAggregator("stats.kafka.publish.duration", nil),
		messageSize:     NewAggregator("stats.kafka.message_size", nil),
	}
}

func (k *Kafka) Name() string {
	return "kafka"
}

// Partition returns the partition the given tagged key is published to
func (k *Kafka) Partition(key string) int32 {
	return jump.Hash(xxhash.Sum64String(key), int(k.numPartitions))
}

func (k *Kafka) Write(recs []Record, now time.Time) error {
	if len(recs) == 0 {
		return nil
	}
	msgs := make([]*sarama.ProducerMessage, 0, len(recs))
	for i := range recs {
		data, err := recs[i].MarshalMsg(nil)
		if err != nil {
			return fmt.Errorf("failed to encode record %s: %w", recs[i].Name, err)
		}
		k.messageSize.Update(Clamp32(int64(len(data))))
		key := recs[i].Key()
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic:     k.topic,
			Key:       sarama.StringEncoder(key),
			Value:     sarama.ByteEncoder(data),
			Partition: k.Partition(key),
			Timestamp: now,
		})
	}
	pre := time.Now()
	err := k.producer.SendMessages(msgs)
	k.publishDuration.Update(Clamp32(time.Since(pre).Microseconds()))
	if err != nil {
		if errs, ok := err.(sarama.ProducerErrors); ok && len(errs) > 0 {
			k.published.MarkN(uint32(len(msgs) - len(errs)))
			return fmt.Errorf("failed to publish %d of %d records: %w", len(errs), len(msgs), errs[0].Err)
		}
		return err
	}
	k.published.MarkN(uint32(len(msgs)))
	return nil
}

func (k *Kafka) Close() error {
	err := k.producer.Close()
	if k.client != nil {
		if cerr := k.client.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
