package main

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/opensilex/phis/cmd/phisd/handlers"
	kcf "github.com/opensilex/phis/pkg/configs/server"
	"github.com/opensilex/phis/pkg/conn/mongo"
	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/domain/annotation"
	"github.com/opensilex/phis/pkg/domain/brapi"
	"github.com/opensilex/phis/pkg/domain/event"
	"github.com/opensilex/phis/pkg/domain/experiment"
	"github.com/opensilex/phis/pkg/domain/file"
	"github.com/opensilex/phis/pkg/domain/infrastructure"
	"github.com/opensilex/phis/pkg/domain/ontology"
	"github.com/opensilex/phis/pkg/domain/project"
	"github.com/opensilex/phis/pkg/domain/scientificobject"
	"github.com/opensilex/phis/pkg/domain/variable"
	"github.com/opensilex/phis/pkg/domain/vector"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/sparql"
	"github.com/opensilex/phis/pkg/sparql/mapper"
	"github.com/opensilex/phis/pkg/storage"
)

type backends struct {
	baseURI string

	users  kdb.UserInterface
	groups kdb.GroupInterface
	issuer *security.TokenIssuer

	projects          project.Interface
	experiments       experiment.Interface
	variables         *variable.DAO
	vectors           vector.Interface
	annotations       annotation.Interface
	scientificObjects scientificobject.Interface
	infrastructures   infrastructure.Interface
	events            event.Interface
	ontology          ontology.Interface
	brapi             *brapi.Service
	files             file.Interface

	health map[string]handlers.Pinger
}

func newBackends(
	conf *kcf.Config,
	svc *sparql.Service,
	mgo *mongo.Client,
	db kdb.Database,
	fs storage.FileStorage,
	issuer *security.TokenIssuer,
) *backends {
	users := db.Users()
	variables := variable.New(svc)
	return &backends{
		baseURI: conf.BaseURI(),
		users:   users,
		groups:  db.Groups(),
		issuer:  issuer,

		projects:          project.New(svc),
		experiments:       experiment.New(svc),
		variables:         variables,
		vectors:           vector.New(svc, users),
		annotations:       annotation.New(svc, users),
		scientificObjects: scientificobject.New(svc),
		infrastructures:   infrastructure.New(svc),
		events:            event.New(svc),
		ontology:          ontology.New(svc),
		brapi:             brapi.New(variables),
		files:             file.New(mgo, svc, fs, mgo.Logger()),

		health: map[string]handlers.Pinger{"triplestore": svc, "mongodb": mgo, "postgres": db},
	}
}

// publicRoutes are routes reachable without token, relative to the api root.
var publicRoutes = []string{
	"/health",
	"/security/authenticate",
	"/brapi/v1/calls",
	"/data/file/:uri",
}

func register(e *echo.Echo, apiRoot string, b *backends) {
	root := strings.TrimSuffix(apiRoot, "/")
	public := make([]string, len(publicRoutes))
	for i, r := range publicRoutes {
		public[i] = root + r
	}
	api := e.Group(root, security.Filter(b.issuer, b.users, security.WithPublicRoutes(public...)))

	const uri = "uri"
	param := "/:" + uri

	api.GET("/health", handlers.HealthHandler(b.health))

	{
		api.POST("/security/authenticate", handlers.AuthenticateHandler(b.users, b.issuer))
		api.GET("/users", handlers.SearchUsersHandler(b.users))
		api.POST("/users", handlers.CreateUserHandler(b.users, b.baseURI), security.RequireAdmin)
		api.GET("/users"+param, handlers.GetUserHandler(b.users, uri))
		api.GET("/groups", handlers.SearchGroupsHandler(b.groups))
		api.POST("/groups", handlers.CreateGroupHandler(b.groups, b.baseURI), security.RequireAdmin)
	}

	{
		api.GET("/core/projects", handlers.SearchProjectsHandler(b.projects))
		api.POST("/core/projects", handlers.CreateProjectsHandler(b.projects))
		api.PUT("/core/projects", handlers.UpdateProjectHandler(b.projects))
		api.GET("/core/projects/by_uris", handlers.GetProjectsByURIsHandler(b.projects))
		api.GET("/core/projects"+param, handlers.GetProjectHandler(b.projects, uri))
		api.DELETE("/core/projects"+param, handlers.DeleteProjectHandler(b.projects, uri))
	}

	{
		api.GET("/core/experiments", handlers.SearchExperimentsHandler(b.experiments))
		api.POST("/core/experiments", handlers.CreateExperimentsHandler(b.experiments))
		api.PUT("/core/experiments", handlers.UpdateExperimentHandler(b.experiments))
		api.GET("/core/experiments"+param, handlers.GetExperimentHandler(b.experiments, uri))
		api.DELETE("/core/experiments"+param, handlers.DeleteExperimentHandler(b.experiments, uri))
	}

	{
		v := b.variables
		variables[variable.Variable](api, "/core/variables", v.Variables, uri)
		variables[variable.Entity](api, "/core/variables/entities", v.Entities, uri)
		variables[variable.Quality](api, "/core/variables/qualities", v.Qualities, uri)
		variables[variable.Method](api, "/core/variables/methods", v.Methods, uri)
		variables[variable.Unit](api, "/core/variables/units", v.Units, uri)
	}

	{
		api.GET("/vectors", handlers.SearchVectorsHandler(b.vectors))
		api.POST("/vectors", handlers.CreateVectorsHandler(b.vectors))
		api.PUT("/vectors", handlers.UpdateVectorsHandler(b.vectors))
		api.GET("/vectors"+param, handlers.GetVectorHandler(b.vectors, uri))
	}

	{
		api.GET("/annotations", handlers.SearchAnnotationsHandler(b.annotations))
		api.POST("/annotations", handlers.CreateAnnotationsHandler(b.annotations))
		api.GET("/annotations"+param, handlers.GetAnnotationHandler(b.annotations, uri))
	}

	{
		api.GET("/scientificObjects", handlers.SearchScientificObjectsHandler(b.scientificObjects))
		api.POST("/scientificObjects", handlers.CreateScientificObjectsHandler(b.scientificObjects))
		api.PUT("/scientificObjects", handlers.UpdateScientificObjectsHandler(b.scientificObjects))
		api.GET("/scientificObjects"+param, handlers.GetScientificObjectHandler(b.scientificObjects, uri))
	}

	{
		api.GET("/infrastructures", handlers.SearchInfrastructuresHandler(b.infrastructures))
		api.POST("/infrastructures", handlers.CreateInfrastructuresHandler(b.infrastructures))
		api.GET("/infrastructures/tree", handlers.InfrastructureTreeHandler(b.infrastructures))
		api.GET("/infrastructures"+param, handlers.GetInfrastructureHandler(b.infrastructures, uri))
	}

	{
		api.GET("/events", handlers.SearchEventsHandler(b.events))
		api.POST("/events", handlers.CreateEventsHandler(b.events))
		api.GET("/events"+param, handlers.GetEventHandler(b.events, uri))
	}

	{
		api.GET("/ontology/subclasses_of", handlers.SubClassesHandler(b.ontology))
		api.GET("/ontology/labels", handlers.LabelsHandler(b.ontology))
	}

	{
		api.GET("/data/file/search", handlers.SearchFilesHandler(b.files))
		api.POST("/data/file", handlers.UploadFileHandler(b.files))
		api.POST("/data/file/paths", handlers.RegisterWebPathsHandler(b.files))
		api.GET("/data/file"+param, handlers.DownloadFileHandler(b.files, uri))
		api.GET("/data/file"+param+"/description", handlers.GetFileDescriptionHandler(b.files, uri))
	}

	{
		api.GET("/brapi/v1/calls", handlers.BrAPICallsHandler(b.brapi))
		api.GET("/brapi/v1/traits", handlers.BrAPITraitsHandler(b.brapi))
		api.GET("/brapi/v1/traits/:traitDbId", handlers.BrAPITraitHandler(b.brapi, "traitDbId"))
	}
}

func variables[T any, P mapper.PModel[T]](api *echo.Group, path string, store handlers.VariableStore[P], uri string) {
	api.GET(path, handlers.SearchVariablesHandler[P](store))
	api.POST(path, handlers.CreateVariablesHandler[T, P](store))
	api.PUT(path, handlers.UpdateVariableHandler[T, P](store))
	api.GET(path+"/:"+uri, handlers.GetVariableHandler[P](store, uri))
	api.DELETE(path+"/:"+uri, handlers.DeleteVariableHandler[P](store, uri))
}
