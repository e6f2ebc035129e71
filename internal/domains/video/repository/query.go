package repository

import (
	"fmt"
	"strings"

	"catalog-backend/internal/domains/video/model"
)

const selectColumns = `
		v.id, v.title, v.description, v.video_file, v.video_file_key,
		v.thumbnail, v.thumbnail_key, v.thumbnail_variants, v.duration,
		v.is_published, v.owner_id, v.version, v.created_at, v.updated_at,
		u.id, u.username, u.full_name, u.avatar`

const ownerJoin = `LEFT JOIN users u ON u.id = v.owner_id`

var sortColumns = map[string]string{
	model.SortCreatedAt: "v.created_at",
	model.SortTitle:     "v.title",
	model.SortDuration:  "v.duration",
	model.SortUpdatedAt: "v.updated_at",
}

// escapeLike escape các ký tự đặc biệt của LIKE để match literal
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// listQuery gom SQL cho count + page, dùng chung WHERE và args
type listQuery struct {
	CountSQL string
	PageSQL  string
	Args     []interface{} // args cho WHERE
	PageArgs []interface{} // Args + limit + offset
}

func buildListQuery(q model.ListQuery) listQuery {
	var conditions []string
	var args []interface{}
	argIndex := 1

	if q.Query != "" {
		conditions = append(conditions, fmt.Sprintf(`v.title ILIKE $%d ESCAPE '\'`, argIndex))
		args = append(args, "%"+escapeLike(q.Query)+"%")
		argIndex++
	}

	if q.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("v.owner_id = $%d", argIndex))
		args = append(args, *q.OwnerID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = sortColumns[model.SortCreatedAt]
	}
	direction := "DESC"
	if !q.Desc {
		direction = "ASC"
	}

	// id tiebreaker để thứ tự là total order, page không overlap
	orderBy := fmt.Sprintf("ORDER BY %s %s, v.id %s", column, direction, direction)

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM videos v %s", whereClause)
	pageSQL := fmt.Sprintf(`
		SELECT %s
		FROM videos v
		%s
		%s
		%s
		LIMIT $%d OFFSET $%d`, selectColumns, ownerJoin, whereClause, orderBy, argIndex, argIndex+1)

	pageArgs := make([]interface{}, 0, len(args)+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, q.Limit, q.Offset())

	return listQuery{
		CountSQL: countSQL,
		PageSQL:  pageSQL,
		Args:     args,
		PageArgs: pageArgs,
	}
}
