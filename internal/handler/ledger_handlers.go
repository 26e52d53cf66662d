package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/session"
)

// ============================================================
// Ledger items — /v1/items
// ============================================================

func listItemsHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/items")
		defer span.End()

		sess := openSession(r, sessions, logger)
		writeJSON(w, http.StatusOK, map[string]any{"items": sess.Store.Items()})
	}
}

func createItemHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/items")
		defer span.End()

		var item domain.LedgerItem
		if err := decodeBody(r, &item); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess := openSession(r, sessions, logger)
		created, err := sess.Store.AddItem(ctx, item)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateItemHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/items/{itemID}")
		defer span.End()

		var item domain.LedgerItem
		if err := decodeBody(r, &item); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		item.ID = chi.URLParam(r, "itemID")

		sess := openSession(r, sessions, logger)
		if err := sess.Store.UpdateItem(ctx, item); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func deleteItemHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/items/{itemID}")
		defer span.End()

		sess := openSession(r, sessions, logger)
		if err := sess.Store.DeleteItem(ctx, chi.URLParam(r, "itemID")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Physical assets — /v1/assets
// ============================================================

func listAssetsHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/assets")
		defer span.End()

		sess := openSession(r, sessions, logger)
		writeJSON(w, http.StatusOK, map[string]any{"assets": sess.Store.Assets()})
	}
}

func createAssetHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/assets")
		defer span.End()

		var asset domain.PhysicalAsset
		if err := decodeBody(r, &asset); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess := openSession(r, sessions, logger)
		created, err := sess.Store.AddAsset(ctx, asset)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateAssetHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/assets/{assetID}")
		defer span.End()

		var asset domain.PhysicalAsset
		if err := decodeBody(r, &asset); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		asset.ID = chi.URLParam(r, "assetID")

		sess := openSession(r, sessions, logger)
		if err := sess.Store.UpdateAsset(ctx, asset); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, asset)
	}
}

func deleteAssetHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/assets/{assetID}")
		defer span.End()

		sess := openSession(r, sessions, logger)
		if err := sess.Store.DeleteAsset(ctx, chi.URLParam(r, "assetID")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func liquidateAssetHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/assets/{assetID}/liquidate")
		defer span.End()

		var req struct {
			AccountID string  `json:"account_id" validate:"required"`
			SalePrice float64 `json:"sale_price" validate:"gt=0"`
		}
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess := openSession(r, sessions, logger)
		if err := sess.Settlement.Liquidate(ctx, chi.URLParam(r, "assetID"), req.AccountID, req.SalePrice); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Directory — /v1/entities
// ============================================================

func listEntitiesHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/entities")
		defer span.End()

		sess := openSession(r, sessions, logger)
		writeJSON(w, http.StatusOK, map[string]any{"entities": sess.Store.Entities()})
	}
}

func createEntityHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/entities")
		defer span.End()

		var entity domain.DirectoryEntity
		if err := decodeBody(r, &entity); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess := openSession(r, sessions, logger)
		created, err := sess.Store.AddEntity(ctx, entity)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateEntityHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/entities/{entityID}")
		defer span.End()

		var entity domain.DirectoryEntity
		if err := decodeBody(r, &entity); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		entity.ID = chi.URLParam(r, "entityID")

		sess := openSession(r, sessions, logger)
		if err := sess.Store.UpdateEntity(ctx, entity); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, entity)
	}
}

func deleteEntityHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/entities/{entityID}")
		defer span.End()

		sess := openSession(r, sessions, logger)
		if err := sess.Store.DeleteEntity(ctx, chi.URLParam(r, "entityID")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Shopping log — /v1/shopping
// ============================================================

func listShoppingHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/shopping")
		defer span.End()

		sess := openSession(r, sessions, logger)
		writeJSON(w, http.StatusOK, map[string]any{"shopping": sess.Store.Shopping()})
	}
}

func createShoppingHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/shopping")
		defer span.End()

		var item domain.ShoppingItem
		if err := decodeBody(r, &item); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess := openSession(r, sessions, logger)
		created, err := sess.Store.AddShopping(ctx, item)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateShoppingHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/shopping/{shoppingID}")
		defer span.End()

		var item domain.ShoppingItem
		if err := decodeBody(r, &item); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		item.ID = chi.URLParam(r, "shoppingID")

		sess := openSession(r, sessions, logger)
		if err := sess.Store.UpdateShopping(ctx, item); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func deleteShoppingHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/shopping/{shoppingID}")
		defer span.End()

		sess := openSession(r, sessions, logger)
		if err := sess.Store.DeleteShopping(ctx, chi.URLParam(r, "shoppingID")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
