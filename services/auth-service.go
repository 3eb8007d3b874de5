package services

import (
	"context"
	"html"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

type AuthService struct {
	UserCollection *mongo.Collection
}

func NewAuthService(userCollection *mongo.Collection) *AuthService {
	return &AuthService{UserCollection: userCollection}
}

// Register creates an account and issues a session token. The plain
// password is hashed before the document is written; it is never stored or
// returned.
func (s *AuthService) Register(ctx context.Context, user models.User, password string) (models.User, string, error) {
	if user.Name == "" || user.Email == "" || password == "" {
		return models.User{}, "", utils.NewValidationError("Name, email and password are required")
	}
	if !user.Role.Valid() {
		return models.User{}, "", utils.NewValidationError("Invalid role specified")
	}

	var existing models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing); err == nil {
		return models.User{}, "", utils.NewValidationError("Email already in use")
	}

	user.Name = html.EscapeString(user.Name)
	user.Email = html.EscapeString(user.Email)

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, "", err
	}
	user.ID = primitive.NewObjectID()
	user.Password = hashed
	user.CreatedAt = nowUTC()

	if _, err := s.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, "", utils.NewValidationError("Email already in use")
		}
		return models.User{}, "", err
	}

	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return models.User{}, "", err
	}

	user.Password = ""
	return user, token, nil
}

// Login checks credentials and issues a token. A missing user and a wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	if email == "" || password == "" {
		return models.User{}, "", utils.NewValidationError("Please provide email and password")
	}

	var user models.User
	err := s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, "", utils.NewAuthError("Incorrect email or password")
	}

	if err := utils.CheckPassword(user.Password, password); err != nil {
		return models.User{}, "", utils.NewAuthError("Incorrect email or password")
	}

	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return models.User{}, "", err
	}

	user.Password = ""
	return user, token, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return models.User{}, utils.NewNotFoundError("No user found with that ID")
	}
	user.Password = ""
	return user, nil
}

// ChangePassword verifies the current password, swaps in the new hash and
// re-issues a token so the old one can be discarded client-side.
func (s *AuthService) ChangePassword(ctx context.Context, principal models.Principal, currentPassword, newPassword string) (models.User, string, error) {
	if newPassword == "" {
		return models.User{}, "", utils.NewValidationError("New password is required")
	}

	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"_id": principal.ID}).Decode(&user); err != nil {
		return models.User{}, "", utils.NewNotFoundError("No user found with that ID")
	}

	if err := utils.CheckPassword(user.Password, currentPassword); err != nil {
		return models.User{}, "", utils.NewAuthError("Current password is incorrect")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return models.User{}, "", err
	}

	if _, err := s.UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{"password": hashed}}); err != nil {
		return models.User{}, "", err
	}

	token, err := utils.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return models.User{}, "", err
	}

	user.Password = ""
	return user, token, nil
}
