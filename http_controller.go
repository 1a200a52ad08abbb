package chat

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RegisterRoutes mounts the public API on the given fiber app. Routes that
// act on behalf of a user sit behind the bearer token middleware.
func RegisterRoutes(app *fiber.App, controller *APIController, auther *RouteAuthenticator, cfg Config) {
	protected := auther.ProtectedRoute(cfg, auther.MakeRouteAuthErrorHandler(false))

	app.Get("/health", controller.HealthCheck)

	auth := app.Group("/auth")
	auth.Post("/registration", controller.RegistrationCreate)
	auth.Post("/token", controller.TokenCreate)

	users := app.Group("/users")
	users.Get("/", controller.UsersList)
	users.Get("/me", protected, controller.CurrentUserGet)
	users.Put("/me", protected, controller.CurrentUserUpdate)
	users.Get("/:id", controller.UserGet)
	users.Get("/:id/chats", controller.UserChats)

	chats := app.Group("/chats")
	chats.Get("/", controller.ChatsList)
	chats.Get("/:id", controller.ChatGet)
	chats.Put("/:id", controller.ChatUpdate)
	chats.Get("/:id/messages", controller.ChatMessages)
	chats.Get("/:id/users", controller.ChatUsers)
	chats.Post("/:id/messages", protected, controller.MessageCreate)
}

type APIController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
	Auther *RouteAuthenticator
	Config Config
}

type APIControllerOption func(*APIController) *APIController

func NewAPIController(opts ...APIControllerOption) *APIController {
	c := &APIController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in api controller...")
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in api controller...")
	}

	if c.Config == nil {
		panic("Missing Config in api controller...")
	}

	return c
}

func WithControllerRepo(repo RepositoryManager) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Repo = repo
		return c
	}
}

func WithControllerAuther(auther *RouteAuthenticator) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Auther = auther
		return c
	}
}

func WithControllerConfig(cfg Config) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Config = cfg
		return c
	}
}

func WithControllerLogger(logger Logger) APIControllerOption {
	return func(c *APIController) *APIController {
		c.Logger = logger
		return c
	}
}

func (a *APIController) HealthCheck(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status": "ok",
	})
}

// RegistrationCreatePayload is the registration body
type RegistrationCreatePayload struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *APIController) RegistrationCreate(ctx *fiber.Ctx) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return RenderValidationError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload", "error", err)
		return RenderValidationError(ctx, err)
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	user, err := registerUser.Execute(ctx.UserContext(), RegisterUserMessage{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		a.Logger.Error("register user execute", "error", err)
		return RenderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": NewUserPublic(user),
	})
}

// LoginRequest is the token request body
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// GetIdentifier returns the identifier
func (r LoginRequest) GetIdentifier() string {
	return r.Username
}

// GetPassword will return the password
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *APIController) TokenCreate(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("token create parse payload", "error", err)
		return RenderValidationError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return RenderValidationError(ctx, err)
	}

	token, err := a.Auther.Login(ctx, payload)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   a.Config.GetTokenExpiration() * 60,
	})
}

func (a *APIController) UsersList(ctx *fiber.Ctx) error {
	users, err := a.Repo.Users().ListAll(ctx.UserContext())
	if err != nil {
		return RenderError(ctx, err)
	}

	result := NewUserPublicList(users)

	return ctx.JSON(fiber.Map{
		"meta":  fiber.Map{"count": len(result)},
		"users": result,
	})
}

func (a *APIController) UserGet(ctx *fiber.Ctx) error {
	identifier := ctx.Params("id")

	user, err := a.Repo.Users().GetByIdentifier(ctx.UserContext(), identifier)
	if err != nil {
		if IsNotFoundError(err) {
			err = NewEntityNotFound("User", identifier)
		}
		return RenderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"user": NewUserPublic(user),
	})
}

func (a *APIController) UserChats(ctx *fiber.Ctx) error {
	identifier := ctx.Params("id")

	user, err := a.Repo.Users().GetByIdentifier(ctx.UserContext(), identifier)
	if err != nil {
		if IsNotFoundError(err) {
			err = NewEntityNotFound("User", identifier)
		}
		return RenderError(ctx, err)
	}

	records, err := a.Repo.Chats().ListForUser(ctx.UserContext(), user.ID)
	if err != nil {
		return RenderError(ctx, err)
	}

	chats := NewChatPublicList(records)

	return ctx.JSON(fiber.Map{
		"meta":  fiber.Map{"count": len(chats)},
		"chats": chats,
	})
}

func (a *APIController) CurrentUserGet(ctx *fiber.Ctx) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"user": NewUserPublic(user),
	})
}

// UpdateProfilePayload carries the mutable profile fields. Absent fields are
// left untouched.
type UpdateProfilePayload struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// Validate will validate the payload. Nil fields carry no rules to run.
func (r UpdateProfilePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Length(3, 100), is.Email),
	)
}

func (a *APIController) CurrentUserUpdate(ctx *fiber.Ctx) error {
	user, err := a.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	payload := new(UpdateProfilePayload)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("update profile parse payload", "error", err)
		return RenderValidationError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return RenderValidationError(ctx, err)
	}

	updateProfile := NewUpdateProfileHandler(a.Repo)
	updated, err := updateProfile.Execute(ctx.UserContext(), UpdateProfileMessage{
		UserID:   user.ID,
		Username: payload.Username,
		Email:    payload.Email,
	})
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"user": NewUserPublic(updated),
	})
}

func (a *APIController) ChatsList(ctx *fiber.Ctx) error {
	records, err := a.Repo.Chats().ListWithOwner(ctx.UserContext())
	if err != nil {
		return RenderError(ctx, err)
	}

	chats := NewChatPublicList(records)

	return ctx.JSON(fiber.Map{
		"meta":  fiber.Map{"count": len(chats)},
		"chats": chats,
	})
}

func (a *APIController) ChatGet(ctx *fiber.Ctx) error {
	id, err := a.chatID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	includeMessages := false
	includeUsers := false
	for _, raw := range ctx.Context().QueryArgs().PeekMulti("include") {
		switch string(raw) {
		case "messages":
			includeMessages = true
		case "users":
			includeUsers = true
		}
	}

	record, err := a.Repo.Chats().GetWithRelations(ctx.UserContext(), id, includeUsers)
	if err != nil {
		if IsNotFoundError(err) {
			err = NewEntityNotFound("Chat", id.String())
		}
		return RenderError(ctx, err)
	}

	messageCount, err := a.Repo.Chats().CountMessages(ctx.UserContext(), id)
	if err != nil {
		return RenderError(ctx, err)
	}

	userCount, err := a.Repo.Chats().CountMembers(ctx.UserContext(), id)
	if err != nil {
		return RenderError(ctx, err)
	}

	body := fiber.Map{
		"meta": fiber.Map{
			"message_count": messageCount,
			"user_count":    userCount,
		},
		"chat": NewChatPublic(record),
	}

	if includeMessages {
		records, err := a.Repo.Messages().ListForChat(ctx.UserContext(), id)
		if err != nil {
			return RenderError(ctx, err)
		}
		body["messages"] = NewMessagePublicList(records)
	}

	if includeUsers {
		body["users"] = NewUserPublicList(record.Users)
	}

	return ctx.JSON(body)
}

// ChatUpdatePayload renames a chat
type ChatUpdatePayload struct {
	Name string `json:"name" form:"name"`
}

// Validate will validate the payload
func (r ChatUpdatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

func (a *APIController) ChatUpdate(ctx *fiber.Ctx) error {
	id, err := a.chatID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	payload := new(ChatUpdatePayload)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("chat update parse payload", "error", err)
		return RenderValidationError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return RenderValidationError(ctx, err)
	}

	if _, err := a.Repo.Chats().GetWithRelations(ctx.UserContext(), id, false); err != nil {
		if IsNotFoundError(err) {
			err = NewEntityNotFound("Chat", id.String())
		}
		return RenderError(ctx, err)
	}

	record, err := a.Repo.Chats().Rename(ctx.UserContext(), id, payload.Name)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"chat": NewChatPublic(record),
	})
}

func (a *APIController) ChatMessages(ctx *fiber.Ctx) error {
	id, err := a.chatID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if _, err := a.Repo.Chats().GetWithRelations(ctx.UserContext(), id, false); err != nil {
		if IsNotFoundError(err) {
			err = NewEntityNotFound("Chat", id.String())
		}
		return RenderError(ctx, err)
	}

	records, err := a.Repo.Messages().ListForChat(ctx.UserContext(), id)
	if err != nil {
		return RenderError(ctx, err)
	}

	result := NewMessagePublicList(records)

	return ctx.JSON(fiber.Map{
		"meta":     fiber.Map{"count": len(result)},
		"messages": result,
	})
}

func (a *APIController) ChatUsers(ctx *fiber.Ctx) error {
	id, err := a.chatID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if _, err := a.Repo.Chats().GetWithRelations(ctx.UserContext(), id, false); err != nil {
		if IsNotFoundError(err) {
			err = NewEntityNotFound("Chat", id.String())
		}
		return RenderError(ctx, err)
	}

	records, err := a.Repo.Chats().Members(ctx.UserContext(), id)
	if err != nil {
		return RenderError(ctx, err)
	}

	users := NewUserPublicList(records)

	return ctx.JSON(fiber.Map{
		"meta":  fiber.Map{"count": len(users)},
		"users": users,
	})
}

// MessageCreatePayload is the body for posting a message
type MessageCreatePayload struct {
	Text string `json:"text" form:"text"`
}

// Validate will validate the payload
func (r MessageCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required, validation.Length(1, 10000)),
	)
}

func (a *APIController) MessageCreate(ctx *fiber.Ctx) error {
	id, err := a.chatID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	user, err := a.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	payload := new(MessageCreatePayload)
	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("message create parse payload", "error", err)
		return RenderValidationError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return RenderValidationError(ctx, err)
	}

	postMessage := NewPostMessageHandler(a.Repo)
	record, err := postMessage.Execute(ctx.UserContext(), PostMessageMessage{
		ChatID: id,
		UserID: user.ID,
		Text:   payload.Text,
	})
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": NewMessagePublic(record),
	})
}

func (a *APIController) currentUser(ctx *fiber.Ctx) (*User, error) {
	if user, ok := FromContext(ctx.UserContext()); ok {
		return user, nil
	}

	session, err := GetRouteSession(ctx, a.Config.GetContextKey())
	if err != nil {
		return nil, err
	}

	// A signed token whose subject no longer exists is still a failed
	// authentication, not a missing resource.
	user, err := a.Repo.Users().GetByIdentifier(ctx.UserContext(), session.GetUserID())
	if err != nil {
		if IsNotFoundError(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	ctx.SetUserContext(WithContext(ctx.UserContext(), user))

	return user, nil
}

func (a *APIController) chatID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw := ctx.Params("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NewEntityNotFound("Chat", raw)
	}
	return id, nil
}
