package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/pflag"
	"github.com/xo/dburl"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/engelsystem/engelsystem/config"
	"github.com/engelsystem/engelsystem/core"
	"github.com/engelsystem/engelsystem/frontend"
	"github.com/engelsystem/engelsystem/logger"
	"github.com/engelsystem/engelsystem/seed"
	"github.com/engelsystem/engelsystem/sqldb"
	"github.com/engelsystem/engelsystem/sqldb/mysql"
	"github.com/engelsystem/engelsystem/sqldb/sqlite3"
	"github.com/engelsystem/engelsystem/util"
)

func main() {

	// default FlagSet

	var flags = pflag.NewFlagSet("engelsystem", pflag.ExitOnError)
	var cfgFlags = config.AddFlags(flags)

	// init FlagSet

	var initFlags = pflag.NewFlagSet("init", pflag.ExitOnError)
	var initCfgFlags = config.AddFlags(initFlags)
	var initInsert = initFlags.Bool("insert", false, "creates the given user, role or permission")
	var initJoin = initFlags.Bool("join", false, "adds the given user to the given role")
	var initGrant = initFlags.Bool("grant", false, "grants the given permission to the given role")
	var initSession = initFlags.Bool("session", false, "creates a session key for the given user and prints it")
	var initSeed = initFlags.String("seed", "", "loads roles, permissions, users, rooms, shifts and tasks from a YAML `file`")
	var username = initFlags.String("user", "", "specifies a user `name`")
	var rolename = initFlags.String("role", "", "specifies a role `name`")
	var permname = initFlags.String("permission", "", "specifies a permission `name`")
	var description = initFlags.String("description", "", "describes a new permission")

	var cfg *config.Config
	var err error
	if len(os.Args) > 1 && os.Args[1] == "init" {
		_ = initFlags.Parse(os.Args[2:]) // exits on error
		cfg, err = initCfgFlags.Load()
	} else {
		_ = flags.Parse(os.Args[1:])
		cfg, err = cfgFlags.Load()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() {
		_ = log.Sync()
	}()

	// database

	dbURL, err := dburl.Parse(cfg.DB)
	if err != nil {
		log.Error("could not parse database url", zap.Error(err))
		return
	}

	dialect, err := sqldb.DialectOf(dbURL.Driver)
	if err != nil {
		log.Error("database", zap.Error(err))
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Error("could not open sql database", zap.Error(err))
		return
	}

	defer func() {
		log.Info("closing database")
		sqlDB.Close()
	}()

	if err = sqlDB.Ping(); err != nil {
		log.Error("could not ping sql database", zap.Error(err))
		return
	}

	log.Info("using database", zap.String("url", dbURL.URL.Redacted()))

	// assemble stuff

	var sessionStore scs.Store
	switch dialect {
	case sqldb.MySQL:
		sessionStore, err = mysql.NewSessionStore(sqlDB, 5*time.Minute)
	case sqldb.SQLite3:
		sessionStore, err = sqlite3.NewSessionStore(sqlDB, 5*time.Minute)
	}
	if err != nil {
		log.Error("could not create session store", zap.Error(err))
		return
	}

	var db = &core.CoreDB{
		Log:         log,
		KeyLifetime: cfg.KeyLifetime,
	}
	db.Init(sessionStore, cfg.Base)
	sqldb.Fill(db, sqlDB, dialect)

	// init

	if initFlags.Parsed() {
		switch {
		case *initSeed != "":
			err = seedFile(db, *initSeed)
		case *initInsert && *username != "":
			err = insertUser(db, *username)
		case *initInsert && *rolename != "":
			_, err = db.InsertRole(*rolename)
		case *initInsert && *permname != "":
			_, err = db.InsertPermission(*permname, *description)
		case *initJoin && *username != "" && *rolename != "":
			err = db.JoinByName(*rolename, *username)
		case *initGrant && *rolename != "" && *permname != "":
			err = db.GrantByName(*rolename, *permname)
		case *initSession && *username != "":
			err = printSessionKey(db, *username)
		default:
			fmt.Fprintln(os.Stderr, "usage: engelsystem init [flags]")
			initFlags.PrintDefaults()
			return
		}
		if err != nil {
			log.Error("init", zap.Error(err))
		}
		return
	}

	listen(db, cfg)
}

func seedFile(db *core.CoreDB, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fixture, err := seed.Load(file)
	if err != nil {
		return err
	}
	return seed.Apply(db, fixture)
}

func insertUser(db *core.CoreDB, name string) error {

	fmt.Printf("password for user %s: ", name)
	pass1, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	fmt.Printf("repeat password: ")
	pass2, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	if !bytes.Equal(pass1, pass2) {
		return errors.New("passwords don't match")
	}

	user, err := db.InsertUser(name)
	if err != nil {
		return err
	}

	return db.SetPassword(user, string(pass1))
}

func printSessionKey(db *core.CoreDB, name string) error {
	user, err := db.GetUserByName(name)
	if err != nil {
		return fmt.Errorf("user %s: %w", name, err)
	}
	session, err := db.NewSession(user)
	if err != nil {
		return err
	}
	fmt.Println(session.Key())
	return nil
}

func listen(db *core.CoreDB, cfg *config.Config) {

	// httprouter recovers from panics, so the program won't crash

	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		db.Log.Error("listen", zap.Error(err))
		return
	}

	db.Log.Info("listening", zap.String("addr", cfg.Listen), zap.String("base", cfg.Base))

	httpSrv := &http.Server{
		Handler:      util.StripPrefix(cfg.Base, frontend.NewRouter(db, cfg.Base, cfg.CORSOrigins)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	sigintChannel := make(chan os.Signal, 1)

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if !errors.Is(err, http.ErrServerClosed) {
				db.Log.Error("serving", zap.Error(err))
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	db.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		db.Log.Error("shutdown", zap.Error(err))
	}
}
