// Package graph exposes the services as a GraphQL schema.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/msomdec/bookshelf/internal/domain"
	"github.com/msomdec/bookshelf/internal/guard"
	"github.com/msomdec/bookshelf/internal/service"
)

// Resolver holds the services the schema's fields resolve against.
type Resolver struct {
	auth  *service.AuthService
	users *service.UserService
	books *service.BookService
	guard *guard.Guard
}

// NewResolver creates a Resolver.
func NewResolver(auth *service.AuthService, users *service.UserService, books *service.BookService, g *guard.Guard) *Resolver {
	return &Resolver{auth: auth, users: users, books: books, guard: g}
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"_id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"firstName": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"lastName":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"isActive":  &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"createdAt": &graphql.Field{Type: graphql.DateTime},
		"updatedAt": &graphql.Field{Type: graphql.DateTime},
	},
})

var bookType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Book",
	Fields: graphql.Fields{
		"_id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"author":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

var authType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthType",
	Fields: graphql.Fields{
		"user":         &graphql.Field{Type: graphql.NewNonNull(userType)},
		"accessToken":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"refreshToken": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var authInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "AuthInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var createUserInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"email":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"password":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"firstName": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"lastName":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var updateUserInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"email":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"firstName": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"lastName":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"isActive":  &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
	},
})

var createBookInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CreateBookInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"title":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"author":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"price":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
	},
})

var updateBookInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateBookInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		"author":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"price":       &graphql.InputObjectFieldConfig{Type: graphql.Float},
	},
})

func idArg() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}
}

func inputArg(t graphql.Input) *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(t)}
}

// Schema builds the executable schema.
func (r *Resolver) Schema() (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me":    &graphql.Field{Type: userType, Resolve: r.protect(r.me)},
			"users": &graphql.Field{Type: graphql.NewList(userType), Resolve: r.protect(r.listUsers)},
			"user":  &graphql.Field{Type: userType, Args: idArg(), Resolve: r.protect(r.user)},
			"books": &graphql.Field{Type: graphql.NewList(bookType), Resolve: r.guarded(guard.Public, r.listBooks)},
			"book":  &graphql.Field{Type: bookType, Args: idArg(), Resolve: r.guarded(guard.Public, r.book)},
		},
	})

	idAndInput := func(input graphql.Input) graphql.FieldConfigArgument {
		args := idArg()
		args["input"] = inputArg(input)
		return args
	}

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type:    authType,
				Args:    graphql.FieldConfigArgument{"input": inputArg(authInput)},
				Resolve: r.guarded(guard.Public, r.login),
			},
			"refreshToken": &graphql.Field{
				Type:    authType,
				Args:    graphql.FieldConfigArgument{"token": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}},
				Resolve: r.guarded(guard.Public, r.refreshToken),
			},
			"logout": &graphql.Field{Type: graphql.Boolean, Resolve: r.protect(r.logout)},
			"createUser": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"input": inputArg(createUserInput)},
				Resolve: r.guarded(guard.Public, r.createUser),
			},
			"updateUser": &graphql.Field{Type: userType, Args: idAndInput(updateUserInput), Resolve: r.protect(r.updateUser)},
			"removeUser": &graphql.Field{Type: graphql.Boolean, Args: idArg(), Resolve: r.protect(r.removeUser)},
			"createBook": &graphql.Field{
				Type:    bookType,
				Args:    graphql.FieldConfigArgument{"input": inputArg(createBookInput)},
				Resolve: r.guarded(guard.Public, r.createBook),
			},
			"updateBook": &graphql.Field{Type: bookType, Args: idAndInput(updateBookInput), Resolve: r.guarded(guard.Public, r.updateBook)},
			"deleteBook": &graphql.Field{Type: graphql.Boolean, Args: idArg(), Resolve: r.guarded(guard.Public, r.deleteBook)},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func userToMap(u *domain.User) map[string]any {
	if u == nil {
		return nil
	}
	return map[string]any{
		"_id":       u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"isActive":  u.IsActive,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}

func bookToMap(b *domain.Book) map[string]any {
	if b == nil {
		return nil
	}
	return map[string]any{
		"_id":         b.ID,
		"title":       b.Title,
		"author":      b.Author,
		"description": b.Description,
		"price":       b.Price,
	}
}

func sessionToMap(s *domain.IssuedSession) map[string]any {
	return map[string]any{
		"user":         userToMap(s.User),
		"accessToken":  s.AccessToken,
		"refreshToken": s.RefreshToken,
	}
}
