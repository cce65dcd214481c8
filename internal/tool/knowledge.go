package tool

import (
	"context"
	"fmt"

	"github.com/porcitech/kouakou/internal/domain"
	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// KnowledgeHandlers exposes the reference article search to the model.
func KnowledgeHandlers(svc domain.KnowledgeBase) []Handler {
	return []Handler{
		op{
			name: "search_knowledge_base",
			desc: "Recherche des articles de référence sur l'élevage porcin (alimentation, santé, reproduction...).",
			params: objectSchema(map[string]interface{}{
				"query":    stringProp("Question ou mots-clés de la recherche"),
				"category": stringProp("Catégorie d'articles à privilégier"),
				"limit":    intProp("Nombre maximum d'articles à retourner, 10 au plus"),
			}, "query"),
			run: func(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult {
				query := argString(args, "query")
				if query == "" {
					return failure(kerrors.InvalidInput("termes de recherche manquants"))
				}

				articles, err := svc.Search(ctx, id.ProjectID, query, argString(args, "category"), coerceLimit(args, "limit"))
				if err != nil {
					return failure(err)
				}
				return success(fmt.Sprintf("%d articles trouvés", len(articles)), articles)
			},
		},
	}
}
