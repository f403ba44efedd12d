package libs

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	keyMysqlHost = "mysql.host"
	keyMysqlUser = "mysql.user"
	keyMysqlPwd  = "mysql.pwd"
	keyMysqlDb   = "mysql.db"
	keyMysqlPort = "mysql.port"
)

// NewMysqlFromViper opens a gorm handle over mysql with config from viper.
func NewMysqlFromViper(log *zap.Logger) (*gorm.DB, error) {
	if err := requireKeys(keyMysqlHost, keyMysqlUser, keyMysqlPwd, keyMysqlDb); err != nil {
		return nil, err
	}

	port := viper.GetString(keyMysqlPort)
	if len(port) == 0 {
		port = "3306"
	}

	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?charset=utf8&parseTime=True&loc=Local",
		viper.GetString(keyMysqlUser),
		viper.GetString(keyMysqlPwd),
		viper.GetString(keyMysqlHost),
		port,
		viper.GetString(keyMysqlDb),
	)

	db, err := gorm.Open(mysql.New(mysql.Config{DSN: dsn}))
	if err != nil {
		return nil, errors.Wrap(err, "gorm.Open")
	}

	log.Debug("Mysql connection established", zap.String("host", viper.GetString(keyMysqlHost)))
	return db, nil
}
