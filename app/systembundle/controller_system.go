package systembundle

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/GFattehallah/CMHE-Manager/app/storage"
	web3socket "github.com/GFattehallah/CMHE-Manager/app/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// SystemController struct
type SystemController struct {
	core.Controller
	store storage.RecordStore
}

// NewSystemController instance
func NewSystemController(store storage.RecordStore, users *map[string]core.User) *SystemController {
	c := &SystemController{
		Controller: core.Controller{Users: users},
		store:      store,
	}

	c.seedDefaultAdmin()

	return c
}

// Entities registers the account collection with the record store.
func Entities() map[string]storage.Entity {
	return map[string]storage.Entity{
		storage.EntityAccounts: {
			Name:     storage.EntityAccounts,
			New:      func() storage.Record { return &core.User{} },
			NewSlice: func() interface{} { return &core.Users{} },
		},
	}
}

// seedDefaultAdmin creates the initial admin login on an empty installation.
// The password has to be changed afterwards, it is printed once to the log.
func (c *SystemController) seedDefaultAdmin() {
	accounts, err := c.store.List(storage.EntityAccounts)
	if err != nil {
		log.Println(err)
		return
	}
	if len(accounts) > 0 {
		return
	}

	password := core.RandomString(12)
	admin := core.User{
		Username: "admin",
		Name:     "Administrateur",
		Role:     core.RoleAdmin,
		Password: core.GetMD5Hash(password),
		IsActive: true,
	}
	admin.ID = "ACC-" + uuid.NewString()
	if err := c.store.Save(storage.EntityAccounts, &admin); err != nil {
		log.Println(err)
		return
	}
	log.Printf("created default admin account, username: admin, password: %s", password)
}

func (c *SystemController) loadAccounts() (core.Users, error) {
	records, err := c.store.List(storage.EntityAccounts)
	if err != nil {
		return nil, err
	}
	accounts := make(core.Users, 0, len(records))
	for _, record := range records {
		if account, ok := record.(*core.User); ok {
			accounts = append(accounts, *account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Username < accounts[j].Username })
	return accounts, nil
}

func (c *SystemController) isAdmin(user *core.User) bool {
	return user != nil && user.Role == core.RoleAdmin
}

// Login swagger:route POST /system/login system login
//
// Logs you in
//
// Responses:
//
//	default: HandleErrorData
//	    200: data: core.User
//	    401: HandleErrorData "unauthorized"
func (c *SystemController) Login(w http.ResponseWriter, r *http.Request) {
	var user core.User
	if err := c.GetContent(&user, r); err != nil {
		c.HandleErrorWithStatus(err, w, http.StatusBadRequest)
		return
	}

	if len(user.PasswordX) == 0 {
		loginError := make(map[string]string)
		loginError["login"] = "failed"
		c.SendJSON(w, loginError, http.StatusUnauthorized)
		return
	}

	accounts, err := c.loadAccounts()
	if c.HandleError(err, w) {
		return
	}

	hash := c.GetMD5Hash(user.PasswordX)
	var found *core.User
	for i := range accounts {
		if accounts[i].Username == user.Username && accounts[i].Password == hash {
			found = &accounts[i]
			break
		}
	}

	if found == nil {
		loginError := make(map[string]string)
		loginError["login"] = "failed"
		c.SendJSON(w, loginError, http.StatusUnauthorized)
		return
	}
	if !found.IsActive {
		c.HandleAccountLockedError(errors.New("Account locked"), w)
		return
	}

	user = *found
	user.Token = uuid.NewString()
	user.PasswordX = ""
	(*c.Controller.Users)[user.Token] = user

	c.SendJSON(w, &user, http.StatusOK)
}

func (c *SystemController) Logout(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	tmp := strings.Split(auth, " ")
	if len(tmp) == 2 {
		delete(*c.Controller.Users, tmp[1])
	}
	c.SendJSON(w, "OK", http.StatusOK)
}

func (c *SystemController) GetAccountsHandler(w http.ResponseWriter, r *http.Request) {
	ok, user := c.GetUser(w, r)
	if !ok {
		return
	}
	if !c.isAdmin(user) {
		c.HandleErrorWithStatus(errors.New("You are not allowed to manage accounts"), w, http.StatusForbidden)
		return
	}

	accounts, err := c.loadAccounts()
	if c.HandleError(err, w) {
		return
	}
	for i := range accounts {
		accounts[i].Password = ""
	}
	c.SendJSON(w, &accounts, http.StatusOK)
}

func (c *SystemController) SaveAccountHandler(w http.ResponseWriter, r *http.Request) {
	ok, user := c.GetUser(w, r)
	if !ok {
		return
	}
	if !c.isAdmin(user) {
		c.HandleErrorWithStatus(errors.New("You are not allowed to manage accounts"), w, http.StatusForbidden)
		return
	}

	var account core.User
	if err := c.GetContent(&account, r); err != nil {
		c.HandleErrorWithStatus(err, w, http.StatusBadRequest)
		return
	}

	if !account.Validate() {
		log.Println(account.Errors)
		c.SendErrors(w, account.Errors, http.StatusBadRequest)
		return
	}

	isNew := account.ID == ""
	if isNew {
		account.ID = "ACC-" + uuid.NewString()
		if err := core.ValidatePassword(account.PasswordX); err != nil {
			c.HandleErrorWithStatus(err, w, http.StatusBadRequest)
			return
		}
	} else {
		accounts, err := c.loadAccounts()
		if c.HandleError(err, w) {
			return
		}
		for i := range accounts {
			if accounts[i].ID == account.ID {
				account.Password = accounts[i].Password
				account.CreatedAt = accounts[i].CreatedAt
				break
			}
		}
	}

	if account.PasswordX != "" {
		account.Password = c.GetMD5Hash(account.PasswordX)
		account.PasswordX = ""
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}
	account.UpdatedAt = time.Now()

	if err := c.store.Save(storage.EntityAccounts, &account); c.HandleError(err, w) {
		return
	}

	// sessions of a deactivated account die immediately
	if !account.IsActive {
		for token, sessionUser := range *c.Controller.Users {
			if sessionUser.ID == account.ID {
				delete(*c.Controller.Users, token)
			}
		}
	}

	action := web3socket.Websocket_Update
	if isNew {
		action = web3socket.Websocket_Add
	}
	go web3socket.SendBroadCastWebsocketDataInfoMessage("Saved account", action, web3socket.Websocket_Accounts, account.ID, nil)

	account.Password = ""
	c.SendJSON(w, &account, http.StatusOK)
}

func (c *SystemController) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	ok, user := c.GetUser(w, r)
	if !ok {
		return
	}
	if !c.isAdmin(user) {
		c.HandleErrorWithStatus(errors.New("You are not allowed to manage accounts"), w, http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	accountId := vars["accountId"]
	if accountId == user.ID {
		c.HandleErrorWithStatus(errors.New("You can not delete your own account"), w, http.StatusBadRequest)
		return
	}

	if err := c.store.Delete(storage.EntityAccounts, accountId); c.HandleError(err, w) {
		return
	}

	for token, sessionUser := range *c.Controller.Users {
		if sessionUser.ID == accountId {
			delete(*c.Controller.Users, token)
		}
	}

	go web3socket.SendBroadCastWebsocketDataInfoMessage("Deleted account", web3socket.Websocket_Delete, web3socket.Websocket_Accounts, accountId, nil)

	c.SendJSON(w, "OK", http.StatusOK)
}

// ResetPasswordHandler mails a temporary password to the account owner. The
// response is always OK so the endpoint gives away nothing about existing
// usernames.
func (c *SystemController) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var request core.User
	if err := c.GetContent(&request, r); err != nil {
		c.HandleErrorWithStatus(err, w, http.StatusBadRequest)
		return
	}

	accounts, err := c.loadAccounts()
	if c.HandleError(err, w) {
		return
	}

	for i := range accounts {
		account := accounts[i]
		if account.Username != request.Username || account.Email == "" || !account.IsActive {
			continue
		}

		password := core.RandomString(12)
		account.Password = core.GetMD5Hash(password)
		account.UpdatedAt = time.Now()
		if err := c.store.Save(storage.EntityAccounts, &account); c.HandleError(err, w) {
			return
		}

		for token, sessionUser := range *c.Controller.Users {
			if sessionUser.ID == account.ID {
				delete(*c.Controller.Users, token)
			}
		}

		body := "Bonjour " + account.Name + ",\n\n" +
			"Un nouveau mot de passe a été généré pour votre compte: " + password + "\n" +
			"Merci de le changer après votre prochaine connexion."
		go core.SendMail(account.Email, "Réinitialisation du mot de passe", body)
		break
	}

	c.SendJSON(w, "OK", http.StatusOK)
}

func (c *SystemController) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	ok, user := c.GetUser(w, r)
	if !ok {
		return
	}
	me := *user
	me.Password = ""
	c.SendJSON(w, &me, http.StatusOK)
}
