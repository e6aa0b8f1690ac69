package exporter

import (
	"strings"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/registry"
	"go.uber.org/zap"
)

// StatisticsNamespace — фиксированный префикс, под которым узел публикует статистики.
const StatisticsNamespace = "$qdb.statistics"

// DefaultKeyLimit — верхняя граница числа статистик одного узла при обнаружении.
const DefaultKeyLimit = 200

// DiscoveryPrefix возвращает префикс поиска ключей узла: "<namespace>.<nodeID>".
func DiscoveryPrefix(namespace, nodeID string) string {
	return namespace + "." + nodeID
}

// Classified — ключ, найденный в реестре.
//
// Key — полный ключ в хранилище, Name — имя статистики без префикса узла.
type Classified struct {
	Key  string
	Name string
	models.Descriptor
}

// Classifier отделяет префикс узла от ключа и ищет остаток в реестре.
type Classifier struct {
	prefix string
	lookup func(string) (models.Descriptor, bool)
	logger *zap.Logger
}

// NewClassifier создаёт классификатор для ключей узла nodeID в пространстве namespace.
//
// Нераспознанные ключи логируются на уровне warn.
func NewClassifier(namespace, nodeID string, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		prefix: DiscoveryPrefix(namespace, nodeID) + ".",
		lookup: registry.Lookup,
		logger: logger,
	}
}

// Classify возвращает описание статистики для ключа rawKey.
//
// Всё, что стоит после префикса узла, используется как имя целиком:
// "$qdb.statistics.0-0-0-1.memory.physmem.bytes_total" -> "memory.physmem.bytes_total".
// Ключ вне префикса узла или отсутствующий в реестре не является ошибкой:
// возвращается false.
func (c *Classifier) Classify(rawKey string) (Classified, bool) {
	name, ok := strings.CutPrefix(rawKey, c.prefix)
	if !ok || name == "" {
		c.logger.Warn("unrecognized statistic key", zap.String("key", rawKey))
		return Classified{}, false
	}
	d, ok := c.lookup(name)
	if !ok {
		c.logger.Warn("unrecognized statistic key", zap.String("key", name))
		return Classified{}, false
	}
	return Classified{Key: rawKey, Name: name, Descriptor: d}, true
}
