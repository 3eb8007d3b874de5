package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coderpranjal09/cystas-devsoft-Ems/models"
	"github.com/coderpranjal09/cystas-devsoft-Ems/utils"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// UserService is the admin-facing user administration. Scoping is not
// involved here: every route that reaches it is already gated to admins.
type UserService struct {
	UserCollection *mongo.Collection
}

func NewUserService(userCollection *mongo.Collection) *UserService {
	return &UserService{UserCollection: userCollection}
}

func (s *UserService) GetAllUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}

	cursor, err := s.UserCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return models.User{}, utils.NewNotFoundError("No user found with that ID")
	}
	user.Password = ""
	return user, nil
}

func (s *UserService) CreateUser(ctx context.Context, user models.User, password string) (models.User, error) {
	if user.Name == "" || user.Email == "" {
		return models.User{}, utils.NewValidationError("Name and email are required")
	}
	if user.Role == "" {
		user.Role = models.RoleClient
	}
	if !user.Role.Valid() {
		return models.User{}, utils.NewValidationError("Invalid role specified")
	}
	if password == "" {
		password = utils.GenerateRandomPassword()
	}

	var existing models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing); err == nil {
		return models.User{}, utils.NewValidationError("Email already in use")
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	user.ID = primitive.NewObjectID()
	user.Password = hashed
	user.CreatedAt = nowUTC()

	if _, err := s.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, utils.NewValidationError("Email already in use")
		}
		return models.User{}, err
	}

	user.Password = ""
	return user, nil
}

// UpdateUserInput: nil fields are left untouched. Passwords are not
// updatable through this path.
type UpdateUserInput struct {
	Name       *string      `json:"name"`
	Email      *string      `json:"email"`
	Department *string      `json:"department"`
	MobNo      *string      `json:"mobno"`
	Role       *models.Role `json:"role"`
}

func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, input UpdateUserInput) (models.User, error) {
	set := bson.M{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Email != nil {
		set["email"] = *input.Email
	}
	if input.Department != nil {
		set["department"] = *input.Department
	}
	if input.MobNo != nil {
		set["mobno"] = *input.MobNo
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return models.User{}, utils.NewValidationError("Invalid role specified")
		}
		set["role"] = *input.Role
	}
	if len(set) == 0 {
		return models.User{}, utils.NewValidationError("No fields to update")
	}

	var user models.User
	err := s.UserCollection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, utils.NewNotFoundError("No user found with that ID")
		}
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, utils.NewValidationError("Email already in use")
		}
		return models.User{}, err
	}

	user.Password = ""
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.UserCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.NewNotFoundError("No user found with that ID")
	}
	return nil
}
