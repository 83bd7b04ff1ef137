package http

import (
	"net/http"

	applog "finboard/internal/log"
	"finboard/internal/services"
)

// registerCollection wires list, create and delete for one record kind.
func registerCollection[T services.Stampable[T], S any](
	mux *http.ServeMux,
	s *Server,
	path string,
	svc *services.RecordService[T],
	parse func(*RequestBodyParser) (T, error),
	summarize func([]T) S,
) {
	mux.HandleFunc("GET "+path, handleList(s, svc, summarize))
	mux.HandleFunc("POST "+path, handleCreate(s, svc, parse))
	mux.HandleFunc("DELETE "+path+"/{id}", handleDelete(s, svc))
}

func handleList[T services.Stampable[T], S any](s *Server, svc *services.RecordService[T], summarize func([]T) S) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userID(w, r)
		if !ok {
			return
		}
		ctx, cancel := s.withTimeout(r)
		defer cancel()

		recs, err := svc.List(ctx, user)
		if err != nil {
			errorResponseFor(ctx, applog.OpList, err).Write(w)
			return
		}
		NewJSONResponse().Body(summarize(recs)).Write(w)
	}
}

func handleCreate[T services.Stampable[T]](s *Server, svc *services.RecordService[T], parse func(*RequestBodyParser) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userID(w, r)
		if !ok {
			return
		}

		p := NewRequestBodyParser(r)
		if err := p.Parse(); err != nil {
			BadRequestError("malformed request body").Write(w)
			return
		}
		draft, err := parse(p)
		if err != nil {
			errorResponseFor(r.Context(), applog.OpCreate, err).Write(w)
			return
		}

		ctx, cancel := s.withTimeout(r)
		defer cancel()

		rec, err := svc.Create(ctx, user, draft)
		if err != nil {
			errorResponseFor(ctx, applog.OpCreate, err).Write(w)
			return
		}

		applog.FromContext(ctx).InfoContext(ctx, "Record created",
			applog.NewFields().
				WithOperation(applog.OpCreate).
				WithRecord(string(rec.Kind()), rec.RecordID()).
				WithUser(user).
				ToSlice()...)
		NewJSONResponse().Status(http.StatusCreated).Body(rec).Write(w)
	}
}

func handleDelete[T services.Stampable[T]](s *Server, svc *services.RecordService[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userID(w, r)
		if !ok {
			return
		}
		ctx, cancel := s.withTimeout(r)
		defer cancel()

		id := r.PathValue("id")
		if err := svc.Delete(ctx, user, id); err != nil {
			errorResponseFor(ctx, applog.OpDelete, err).Write(w)
			return
		}
		NewJSONResponse().Status(http.StatusNoContent).Write(w)
	}
}
