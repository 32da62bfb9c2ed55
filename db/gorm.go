package db

import (
	"fmt"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"LyricRec/config"
	"LyricRec/logger"
)

// DSN builds the MySQL data source name for cfg.
func DSN(cfg *config.Config) string {
	dc := mysqldriver.NewConfig()
	dc.User = cfg.DBUser
	dc.Passwd = cfg.DBPassword
	dc.Net = "tcp"
	dc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	dc.DBName = cfg.DBName
	dc.ParseTime = true
	dc.Loc = time.Local
	dc.Params = map[string]string{"charset": "utf8mb4"}
	return dc.FormatDSN()
}

// OpenGorm 建立 GORM 数据库连接
func OpenGorm(cfg *config.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		// 禁用外键约束
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database with GORM: %w", err)
	}

	// 获取底层的 sql.DB 并配置连接池
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("[DB] connected with GORM", logger.String("host", cfg.DBHost), logger.String("database", cfg.DBName))
	return gdb, nil
}

// CloseGorm 关闭 GORM 数据库连接
func CloseGorm(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
