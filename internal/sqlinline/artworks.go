package sqlinline

const QCreateArtwork = `--sql e5bf913b-a0e8-4d3f-8c63-1c598bf29a0f
insert into artworks(id, style_id, pet_name, pet_type, storage_key, url, created_at)
values ($1, $2, $3, $4, $5, $6, now())
returning id;
`

const QGetArtwork = `--sql 0fd64a30-c146-4dd4-a4f9-c4248d95f31a
select id, style_id, pet_name, pet_type, storage_key, url, created_at
from artworks
where id = $1;
`
