// Package classification CMHE Manager API
//
// Cabinet management API: patients, agenda, finance ledger and spreadsheet
// imports.
//
//	Schemes: https
//	BasePath: /api/v1
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/GFattehallah/CMHE-Manager/app/cabinetbundle"
	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/GFattehallah/CMHE-Manager/app/importbundle"
	"github.com/GFattehallah/CMHE-Manager/app/storage"
	"github.com/GFattehallah/CMHE-Manager/app/systembundle"
	web3socket "github.com/GFattehallah/CMHE-Manager/app/websocket"
	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"github.com/joho/godotenv"
)

var (
	store storage.RecordStore
	Users map[string]core.User
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("----")
	startServer()
	log.Println("----")
}

func initBundles(users *map[string]core.User) []core.Bundle {
	return []core.Bundle{
		systembundle.NewSystemBundle(store, users),
		cabinetbundle.NewCabinetBundle(store, users),
		importbundle.NewImportBundle(store, users),
	}
}

func entities() map[string]storage.Entity {
	all := make(map[string]storage.Entity)
	for name, entity := range cabinetbundle.Entities() {
		all[name] = entity
	}
	for name, entity := range systembundle.Entities() {
		all[name] = entity
	}
	return all
}

func openStore() (storage.RecordStore, error) {
	if core.Config.Storage.Backend == "file" {
		path := core.Config.Storage.Path
		if path == "" {
			path = "./data"
		}
		log.Println("using file storage at", path)
		return storage.NewFileStore(path, entities())
	}

	dataSourceName := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", core.Config.Database.User, core.Config.Database.Password, core.Config.Database.Host, core.Config.Database.Port, core.Config.Database.Database)
	log.Print("connecting to database... ")
	ormDB, err := gorm.Open("mysql", dataSourceName)
	for err != nil {
		log.Println(err)
		time.Sleep(3 * time.Second)
		ormDB, err = gorm.Open("mysql", dataSourceName)
	}
	log.Println("done")

	ormDB.Exec("SET NAMES utf8")
	ormDB.Exec("SET time_zone = \"+00:00\"")
	ormDB.LogMode(core.Config.Database.Debug)

	if core.Config.Database.DoAutoMigrate {
		ormDB.AutoMigrate(&core.User{})
		ormDB.AutoMigrate(cabinetbundle.Models()...)
	}

	return storage.NewGormStore(ormDB, entities()), nil
}

// Server starten mit: cmhe_manager -configFile=/etc/cmhe/config.json
func startServer() error {
	godotenv.Load()

	configFile := ""
	flag.StringVar(&configFile, "configFile", "config.json", "a string")
	flag.Parse()

	if configFile == "" {
		configFile = "config.json"
	}
	log.Println("using configfile: ", configFile)

	file, _ := os.Open(configFile)
	decoder := json.NewDecoder(file)
	core.Config = core.Configuration{}
	if err := decoder.Decode(&core.Config); err != nil {
		log.Println("error: ", err)
	}

	core.GetEnvironmentConfig(&core.Config)

	var err error
	store, err = openStore()
	if err != nil {
		log.Fatal(err)
	}

	Users = make(map[string]core.User)

	go web3socket.HandleBroadcastMessages()
	go web3socket.HandleUserMessages()

	r := mux.NewRouter()
	s := r.Host(core.Config.Server.Hostname).PathPrefix("/api/v1/").Subrouter()

	log.Print("Adding routes... ")
	for _, b := range initBundles(&Users) {
		for _, route := range b.GetRoutes() {
			s.Handle(route.Path, middleWare(route.Handler)).Methods(route.Method)
		}
	}
	log.Println("done")

	address := fmt.Sprintf(":%d", core.Config.Server.InternalPort)
	log.Println(address)

	if core.Config.Server.WithSSL {
		log.Fatal(http.ListenAndServeTLS(address, core.Config.Server.SSLCertFile, core.Config.Server.SSLKeyFile, r))
	} else {
		log.Fatal(http.ListenAndServe(address, r))
	}

	return nil
}

func isPublicRoute(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	if strings.HasPrefix(r.RequestURI, "/api/v1/system/login") {
		return true
	}
	if strings.HasPrefix(r.RequestURI, "/api/v1/system/password/reset") {
		return true
	}
	return strings.Contains(r.RequestURI, "/api/v1/ws/")
}

func middleWare(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		auth := r.Header.Get("Authorization")
		user := core.User{}
		ok := false
		userId := ""
		tmp := strings.Split(auth, " ")
		if len(tmp) == 2 {
			if user, ok = Users[tmp[1]]; ok {
				userId = user.ID
			}
		}

		if userId == "" && !isPublicRoute(r) {
			w.Header().Add("Content-Type", "application/json")
			w.Header().Add("Access-Control-Allow-Origin", "*")
			w.WriteHeader(http.StatusUnauthorized)
			msg := core.ResponseData{
				Status:  997,
				Message: "You are not authorized, please login!",
			}
			b, _ := json.Marshal(msg)
			io.WriteString(w, string(b))
			return
		}

		if userId != "" && !user.IsActive {
			w.Header().Add("Content-Type", "application/json")
			w.Header().Add("Access-Control-Allow-Origin", "*")
			w.WriteHeader(http.StatusUnauthorized)
			msg := core.ResponseData{
				Status:  core.Account_Locked,
				Message: "Account locked",
			}
			b, _ := json.Marshal(msg)
			io.WriteString(w, string(b))
			return
		}

		h.ServeHTTP(w, r)

		log.Printf("%s %s %s %.3fs", r.Header.Get("Client"), r.Method, r.RequestURI, time.Since(start).Seconds())
	})
}
